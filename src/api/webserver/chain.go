package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hitanshuser50/daoconnect/src/chain"
)

// Chain exposes read access to the governor contract plus an anchor write
// that records a proposal on-chain and hands back the transaction hash.
type Chain struct {
	client chain.Client
}

func NewChain(client chain.Client) Chain {
	return Chain{client: client}
}

func (h Chain) Proposals(c *gin.Context) {
	ids, err := h.client.GetActiveProposals(c)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": ids})
}

func (h Chain) Proposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad id"})
		return
	}
	p, err := h.client.GetProposal(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Chain) Members(c *gin.Context) {
	members, err := h.client.GetAllMembers(c)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Anchor writes an off-chain proposal to the governor contract.
func (h Chain) Anchor(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		EndDate     string `json:"endDate" binding:"required"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad endDate"})
		return
	}
	tx, err := h.client.CreateProposal(c, req.Title, req.Description, endDate)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"txHash": tx})
}
