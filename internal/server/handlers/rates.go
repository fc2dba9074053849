package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robert8597/swifthackathon/internal/application/fxrate"
)

type RatesHandler struct {
	rateProvider fxrate.IRateProvider
}

func NewRatesHandler(rateProvider fxrate.IRateProvider) *RatesHandler {
	return &RatesHandler{rateProvider: rateProvider}
}

// GetRates returns the full rate table as source -> target -> rate.
func (h *RatesHandler) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, h.rateProvider.AllRates())
}
