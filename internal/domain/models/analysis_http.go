package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse.

type AnalyzeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=16"`
	Period string `query:"period" json:"period" default:"daily" validate:"oneof=daily weekly monthly"`
}

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=16"`
	Period string `query:"period" json:"period" default:"daily" validate:"oneof=daily weekly monthly"`
	From   string `query:"from" json:"from,omitempty"`
	To     string `query:"to" json:"to,omitempty"`
	Limit  int    `query:"limit" json:"limit" default:"400" validate:"gte=1,lte=5000"`
}
