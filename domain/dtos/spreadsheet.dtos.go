package dtos

type SpreadsheetPreviewRequest struct {
	Sheet string `form:"sheet" json:"sheet" validate:"max=31"`
}

type SpreadsheetExportRequest struct {
	Sheet  string `form:"sheet" json:"sheet" validate:"max=31"`
	Format string `form:"format" json:"format" validate:"required,oneof=csv xlsx"`
	Mode   string `form:"mode" json:"mode" validate:"required,oneof=exclude first"`
}
