package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/dashboard"
	"github.com/rustyeddy/tradedash/journal"
	"github.com/rustyeddy/tradedash/market"
	"github.com/rustyeddy/tradedash/risk"
)

type instrumentResponse struct {
	Instrument     market.Instrument `json:"instrument"`
	Name           string            `json:"name"`
	PipSize        float64           `json:"pip_size"`
	MinLot         float64           `json:"min_lot"`
	MaxLot         float64           `json:"max_lot"`
	StopLossPips   float64           `json:"stop_loss_pips"`
	TakeProfitPips float64           `json:"take_profit_pips"`
	TradesPerDay   int               `json:"trades_per_day"`
	TargetBalance  float64           `json:"target_balance"`
}

type balanceRequest struct {
	Balance *float64 `json:"balance" binding:"required,gte=0"`
}

// levelsRequest leaves the pip distances nil to use the instrument defaults.
type levelsRequest struct {
	EntryPrice     float64  `json:"entry_price" binding:"gte=0"`
	Direction      string   `json:"direction"`
	TakeProfitPips *float64 `json:"take_profit_pips" binding:"omitempty,gt=0"`
	StopLossPips   *float64 `json:"stop_loss_pips" binding:"omitempty,gt=0"`
}

type levelsResponse struct {
	calc.LevelsDisplay
	Risk risk.Decision `json:"risk"`
}

type compoundingRequest struct {
	InitialBalance float64 `json:"initial_balance" binding:"gt=0"`
	Frequency      string  `json:"frequency" binding:"required,oneof=daily monthly yearly"`
	Periods        int     `json:"periods" binding:"gt=0"`
}

type withdrawalRequest struct {
	CurrentBalance float64 `json:"current_balance" binding:"gt=0"`
}

type historyEntry struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Previous    float64   `json:"previous"`
	Balance     float64   `json:"balance"`
	Change      float64   `json:"change"`
	TradesToday int       `json:"trades_today"`
}

type historyResponse struct {
	Instrument market.Instrument `json:"instrument"`
	Updates    []historyEntry    `json:"updates"`
	NetChange  float64           `json:"net_change"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleInstruments(c *gin.Context) {
	out := make([]instrumentResponse, 0, len(market.All()))
	for _, inst := range market.All() {
		spec := market.MustLookup(inst)
		out = append(out, instrumentResponse{
			Instrument:     inst,
			Name:           spec.Name,
			PipSize:        spec.PipSize,
			MinLot:         spec.MinLot,
			MaxLot:         spec.MaxLot,
			StopLossPips:   spec.StopLossPips,
			TakeProfitPips: spec.TakeProfitPips,
			TradesPerDay:   spec.TradesPerDay(),
			TargetBalance:  spec.TargetBalance,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleClock(c *gin.Context) {
	if s.clock == nil {
		errorResponse(c, http.StatusServiceUnavailable, "world clock unavailable")
		return
	}
	c.JSON(http.StatusOK, s.clock.Readings(time.Now()))
}

// controller resolves the :instrument path parameter, writing a 404 when it
// names nothing we trade.
func (s *Server) controller(c *gin.Context) (*dashboard.Controller, bool) {
	inst, err := market.Parse(c.Param("instrument"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	ctrl, err := s.dash.Get(c.Request.Context(), inst)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return ctrl, true
}

func (s *Server) handleDashboard(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot(c.Request.Context()))
}

func (s *Server) handleUpdateBalance(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	snap, err := ctrl.UpdateBalance(c.Request.Context(), *req.Balance)
	if errors.Is(err, dashboard.ErrInvalidBalance) {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleLevels(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	var req levelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	dir := calc.Rise
	if req.Direction != "" {
		d, err := calc.ParseDirection(req.Direction)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		dir = d
	}

	balance := ctrl.Balance(c.Request.Context())
	in := calc.TradeLevelsInput{
		EntryPrice: req.EntryPrice,
		Direction:  dir,
		Balance:    balance,
	}
	if req.TakeProfitPips != nil {
		in.TakeProfitPips = *req.TakeProfitPips
	}
	if req.StopLossPips != nil {
		in.StopLossPips = *req.StopLossPips
	}
	levels := ctrl.Engine().ComputeTradeLevels(in, ctrl.Spec())
	c.JSON(http.StatusOK, levelsResponse{
		LevelsDisplay: levels.Display(),
		Risk:          risk.Evaluate(s.config.Risk, levels, balance, ctrl.Spec()),
	})
}

func (s *Server) handleCompounding(c *gin.Context) {
	var req compoundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	f, err := calc.ParseFrequency(req.Frequency)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	res := s.engine().ComputeCompounding(req.InitialBalance, f, req.Periods)
	c.JSON(http.StatusOK, res.Display())
}

func (s *Server) handleWithdrawal(c *gin.Context) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	res := s.engine().ComputeWithdrawal(req.CurrentBalance)
	c.JSON(http.StatusOK, res.Display())
}

func (s *Server) handleHistory(c *gin.Context) {
	inst, err := market.Parse(c.Param("instrument"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	if s.history == nil {
		errorResponse(c, http.StatusNotImplemented, "no journal configured")
		return
	}

	loc := s.location()
	end := time.Now().In(loc)
	start := end.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		if start, err = time.ParseInLocation(time.DateOnly, v, loc); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid from date: "+v)
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if end, err = time.ParseInLocation(time.DateOnly, v, loc); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid to date: "+v)
			return
		}
		end = end.AddDate(0, 0, 1)
	}

	recs, err := s.history.ListBetween(inst, start, end)
	if err != nil {
		s.log.Error().Err(err).Str("instrument", string(inst)).Msg("list history")
		errorResponse(c, http.StatusInternalServerError, "failed to read history")
		return
	}

	resp := historyResponse{
		Instrument: inst,
		Updates:    make([]historyEntry, 0, len(recs)),
		NetChange:  journal.Summarize(recs).NetChange,
	}
	for _, r := range recs {
		resp.Updates = append(resp.Updates, historyEntry{
			ID:          r.ID,
			Time:        r.Time,
			Previous:    r.Previous,
			Balance:     r.Balance,
			Change:      r.Change(),
			TradesToday: r.TradesToday,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) engine() *calc.Engine {
	return s.dash.Engine()
}
