package webserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hitanshuser50/daoconnect/src/ai"
	"github.com/Hitanshuser50/daoconnect/src/governance"
)

type Proposals struct {
	svc      *governance.Service
	analyzer *ai.Analyzer
}

func NewProposals(svc *governance.Service, analyzer *ai.Analyzer) Proposals {
	return Proposals{svc: svc, analyzer: analyzer}
}

func (h Proposals) Create(c *gin.Context) {
	var req struct {
		DAOID           string `json:"daoId" binding:"required"`
		Title           string `json:"title" binding:"required"`
		Description     string `json:"description"`
		Category        string `json:"category"`
		FundingRequired string `json:"fundingRequired"`
		RiskLevel       string `json:"riskLevel" binding:"omitempty,oneof=Low Medium High"`
		EndDate         string `json:"endDate"` // RFC3339, optional
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var endDate time.Time
	if req.EndDate != "" {
		var err error
		endDate, err = time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "bad endDate"})
			return
		}
	}

	p, err := h.svc.CreateProposal(c, governance.CreateProposalRequest{
		DAOID:           req.DAOID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		FundingRequired: req.FundingRequired,
		RiskLevel:       req.RiskLevel,
		EndDate:         endDate,
		AuthorAddress:   c.GetString("addr"),
	})
	switch {
	case errors.Is(err, governance.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "dao not found"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Proposals) List(c *gin.Context) {
	if daoID := c.Query("daoId"); daoID != "" {
		c.JSON(http.StatusOK, h.svc.Store().ProposalsByDAO(daoID))
		return
	}
	c.JSON(http.StatusOK, h.svc.Store().AllProposals())
}

func (h Proposals) Get(c *gin.Context) {
	p := h.svc.Store().GetProposal(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Analyze runs the AI verdict for a proposal. Provider failures degrade to
// the fallback verdict rather than an error status.
func (h Proposals) Analyze(c *gin.Context) {
	p := h.svc.Store().GetProposal(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
		return
	}
	analysis, err := h.analyzer.AnalyzeProposal(c, p.Title, p.Description, p.FundingRequired)
	if err != nil {
		c.JSON(http.StatusOK, ai.Fallback())
		return
	}
	c.JSON(http.StatusOK, analysis)
}
