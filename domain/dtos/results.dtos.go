package dtos

type ResultsQueryRequest struct {
	Page     int    `query:"page" json:"page" validate:"min=1"`
	PageSize int    `query:"page_size" json:"page_size" validate:"min=1,max=500"`
	Search   string `query:"q" json:"q" validate:"max=256"`
	Columns  string `query:"columns" json:"columns"`
	SortBy   string `query:"sort" json:"sort"`
	Order    string `query:"order" json:"order" validate:"omitempty,oneof=asc desc"`
}

type ResultsExportRequest struct {
	ResultsQueryRequest
	Format string `query:"format" json:"format" validate:"required,oneof=csv xlsx"`
	Mode   string `query:"mode" json:"mode" validate:"required,oneof=exclude first"`
}
