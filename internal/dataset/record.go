package dataset

// Record is a single pre-aggregated fact row. Field names follow the ETL
// output (aggregated.json): Portuguese keys, numeric measures. Whichever
// attributes a collection does not carry simply decode to zero values.
type Record struct {
	Year  int `json:"ano"`
	Month int `json:"mes,omitempty"` // 0 = annual record

	Purpose          string `json:"finalidade,omitempty"`
	Program          string `json:"programa,omitempty"`
	Product          string `json:"produto,omitempty"`
	MunicipalityCode int64  `json:"codMunic,omitempty"`
	Municipality     string `json:"municipio,omitempty"`

	Value     float64 `json:"valor"`
	Contracts int64   `json:"contratos"`
	Area      float64 `json:"area"` // hectares
}
