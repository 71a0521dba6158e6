package handlers

import "chamber-cms/helper"

type baseHandler struct {
	Helper *helper.HTTPHelper
}

func newBase() baseHandler {
	return baseHandler{Helper: helper.NewHTTPHelper()}
}
