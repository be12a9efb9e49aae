package scheduler

import (
	apphttp "leadrouter/internal/http"
	"leadrouter/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module exposes the background jobs as HTTP triggers for external cron
// callers, guarded by the optional cron secret.
type Module struct {
	jobs *Jobs
}

func NewModule(jobs *Jobs) *Module {
	return &Module{jobs: jobs}
}

func (m *Module) Name() string {
	return "jobs"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/jobs", httpkit.BearerSecret(ctx.Secrets.GetCronSecret()))
	m.registerRoutes(rg)
}

func (m *Module) registerRoutes(rg *gin.RouterGroup) {
	rg.POST("/process-leads", m.processLeads)
	rg.POST("/stale-detection", m.staleDetection)
	rg.POST("/daily-digest", m.dailyDigest)
}

func (m *Module) processLeads(c *gin.Context) {
	result, err := m.jobs.Sweep(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) staleDetection(c *gin.Context) {
	result, err := m.jobs.DetectStale(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) dailyDigest(c *gin.Context) {
	result, err := m.jobs.DailyDigest(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

var _ apphttp.Module = (*Module)(nil)
