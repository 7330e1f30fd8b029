package engine

import "github.com/agrodata-labs/sicorboard/internal/dataset"

// Series and model names accepted by SelectForecast, matching the forecast
// generator's output document.
var (
	ForecastSeries = []string{"total", "custeio", "investimento", "comercializacao"}
	ForecastModels = []string{"xgboost", "lightgbm", "randomforest"}
)

// SelectForecast returns one model's prediction series with its points
// restricted to the active period window. The second return is false when
// the series/model pair is absent or the generator recorded an error for it.
func SelectForecast(ds *dataset.Dataset, series, model string, f FilterState) (dataset.Forecast, bool) {
	models, ok := ds.Forecasts[series]
	if !ok {
		return dataset.Forecast{}, false
	}
	fc, ok := models[model]
	if !ok || fc.Err != "" {
		return dataset.Forecast{}, false
	}

	points := make([]dataset.ForecastPoint, 0, len(fc.Predictions))
	for _, p := range fc.Predictions {
		if f.InPeriod(p.Year, p.Month) {
			points = append(points, p)
		}
	}
	fc.Predictions = points
	return fc, true
}
