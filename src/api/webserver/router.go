package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Hitanshuser50/daoconnect/src/ai"
	"github.com/Hitanshuser50/daoconnect/src/api/config"
	"github.com/Hitanshuser50/daoconnect/src/chain"
	"github.com/Hitanshuser50/daoconnect/src/governance"
)

// New builds the API engine. onchain may be nil; the /chain routes are only
// mounted when a governor client is configured.
func New(cfg config.Config, svc *governance.Service, analyzer *ai.Analyzer, rdb *redis.Client, onchain chain.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	attachRoutes(r, cfg, svc, analyzer, rdb, onchain)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, svc *governance.Service, analyzer *ai.Analyzer, rdb *redis.Client, onchain chain.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://daoconnect.app"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(rdb, []byte(cfg.JWTSecret))
	daoH := NewDAOs(svc)
	propH := NewProposals(svc, analyzer)
	voteH := NewVotes(svc)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		v1.GET("/daos", daoH.List)
		v1.GET("/daos/:id", daoH.Get)
		v1.GET("/proposals", propH.List)
		v1.GET("/proposals/:id", propH.Get)
		v1.GET("/votes/:id", voteH.Summary)
		v1.GET("/votes/:id/ballots", voteH.List)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.POST("/daos", daoH.Create)
		secured.PATCH("/daos/:id", daoH.Update)
		secured.POST("/proposals", propH.Create)
		secured.POST("/proposals/:id/analyze", propH.Analyze)
		secured.POST("/votes", voteH.Cast)

		if onchain != nil {
			chainH := NewChain(onchain)
			v1.GET("/chain/proposals", chainH.Proposals)
			v1.GET("/chain/proposals/:id", chainH.Proposal)
			v1.GET("/chain/members", chainH.Members)
			secured.POST("/chain/proposals", chainH.Anchor)
		}
	}
}
