package redapi

import (
	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status string       `json:"status"`
	Token  tokenSummary `json:"token"`
}

type tokenSummary struct {
	Present          bool `json:"present"`
	Valid            bool `json:"valid"`
	SecondsRemaining int  `json:"secondsRemaining"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	st := s.tokens.CacheStatus()
	return c.JSON(healthResponse{
		Status: "ok",
		Token: tokenSummary{
			Present:          st.Present,
			Valid:            st.Valid,
			SecondsRemaining: st.SecondsRemaining,
		},
	})
}
