package api

import (
	"github.com/gin-gonic/gin"

	"github.com/DanielFlorido/ledgerload"
	"github.com/DanielFlorido/ledgerload/api/middleware"
	"github.com/DanielFlorido/ledgerload/config"
)

type Api struct {
	ledgerload *ledgerload.Ledgerload
	router     *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/balance/process", a.ProcessBalance)
	router.POST("/balance/validate", a.ValidateBalance)
	router.POST("/balance/rows", a.BulkInsertBalance)

	router.POST("/cashflow/process", a.ProcessCashFlow)

	router.GET("/status/:job_id", a.GetJobStatus)
	router.DELETE("/jobs/:job_id", a.DeleteJob)

	router.GET("/health", a.Health)
	return a.router
}

func NewAPI(l *ledgerload.Ledgerload) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{ledgerload: l, router: r}
}
