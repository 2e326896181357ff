package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hitanshuser50/daoconnect/src/governance"
)

type DAOs struct{ svc *governance.Service }

func NewDAOs(svc *governance.Service) DAOs { return DAOs{svc: svc} }

func (h DAOs) Create(c *gin.Context) {
	var req struct {
		Name            string   `json:"name" binding:"required"`
		Description     string   `json:"description"`
		Category        string   `json:"category"`
		Treasury        string   `json:"treasury"`
		VotingMechanism string   `json:"votingMechanism" binding:"omitempty,oneof=Token-weighted Quadratic Equal"`
		Quorum          string   `json:"quorum"`
		Tags            []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	d, err := h.svc.CreateDAO(c, governance.CreateDAORequest{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Treasury:        req.Treasury,
		VotingMechanism: req.VotingMechanism,
		Quorum:          req.Quorum,
		Tags:            req.Tags,
		FounderAddress:  c.GetString("addr"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h DAOs) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Store().AllDAOs())
}

func (h DAOs) Get(c *gin.Context) {
	d := h.svc.Store().GetDAO(c.Param("id"))
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "dao not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h DAOs) Update(c *gin.Context) {
	var req struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Category        *string  `json:"category"`
		Members         *int     `json:"members"`
		Treasury        *string  `json:"treasury"`
		Status          *string  `json:"status" binding:"omitempty,oneof=Pending Active Inactive"`
		VotingMechanism *string  `json:"votingMechanism" binding:"omitempty,oneof=Token-weighted Quadratic Equal"`
		Quorum          *string  `json:"quorum"`
		Tags            []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	d, err := h.svc.UpdateDAO(c, c.Param("id"), governance.DAOPatch{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Members:         req.Members,
		Treasury:        req.Treasury,
		Status:          req.Status,
		VotingMechanism: req.VotingMechanism,
		Quorum:          req.Quorum,
		Tags:            req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "dao not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}
