package api

import (
	"CryptoAnalyst/internal/catalog"
	models "CryptoAnalyst/internal/domain/models"
	"CryptoAnalyst/internal/service/ratelimit"
	"CryptoAnalyst/internal/usecase"
	xhttp "CryptoAnalyst/pkg/http"
	xlogger "CryptoAnalyst/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeEchoHandler implements the Echo-based HTTP handlers for analysis
// and catalog endpoints.
type AnalyzeEchoHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	jobs     *usecase.JobService // nil when the async queue is disabled
	catalog  *catalog.Catalog
	rl       *ratelimit.Limiter
	rlRPS    float64
	rlBurst  float64
}

func NewAnalyzeEchoHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, cat *catalog.Catalog) *AnalyzeEchoHandler {
	return &AnalyzeEchoHandler{
		logger:   logger,
		analyzer: analyzer,
		catalog:  cat,
	}
}

// SetJobService enables the async job endpoints.
func (h *AnalyzeEchoHandler) SetJobService(jobs *usecase.JobService) { h.jobs = jobs }

// SetRateLimit enables per-client token-bucket limiting on analyze endpoints.
func (h *AnalyzeEchoHandler) SetRateLimit(rps float64, burst int) {
	h.rl = ratelimit.New()
	h.rlRPS = rps
	h.rlBurst = float64(burst)
}

func (h *AnalyzeEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/analyze/stream", h.Stream)
	g.POST("/analyze/jobs", h.StartJob)
	g.GET("/analyze/jobs/:id", h.GetJob)
	g.GET("/resolve", h.Resolve)
	g.GET("/catalog/assets", h.CatalogAssets)
	g.GET("/catalog/sectors/:sector", h.CatalogSector)
}

func (h *AnalyzeEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "analyze") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
	}

	st, err := h.analyzer.Analyze(c.Request().Context(), req.Text)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *AnalyzeEchoHandler) Resolve(c echo.Context) error {
	req := &models.ResolveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "resolve") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
	}

	out := h.analyzer.Resolve(c.Request().Context(), req.Text)
	return xhttp.SuccessResponse(c, out)
}

func (h *AnalyzeEchoHandler) StartJob(c echo.Context) error {
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("async jobs are disabled"))
	}
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "jobs") {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded"))
	}

	job, err := h.jobs.Start(c.Request().Context(), req.Text)
	if err != nil {
		h.logger.Error("start job error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not enqueue job").WithError(err))
	}
	return xhttp.CreatedResponse(c, job)
}

func (h *AnalyzeEchoHandler) GetJob(c echo.Context) error {
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("async jobs are disabled"))
	}
	id := c.Param("id")
	job, ok := h.jobs.Get(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("job %s not found", id))
	}
	return xhttp.SuccessResponse(c, job)
}

func (h *AnalyzeEchoHandler) CatalogAssets(c echo.Context) error {
	assets := h.catalog.Assets()
	return xhttp.ListResponse(c, assets, int64(len(assets)))
}

func (h *AnalyzeEchoHandler) CatalogSector(c echo.Context) error {
	req := &models.SectorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	assets := h.catalog.AssetsInSector(req.Sector)
	if len(assets) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown sector: %s", req.Sector))
	}
	return xhttp.ListResponse(c, assets, int64(len(assets)))
}

func (h *AnalyzeEchoHandler) allow(c echo.Context, op string) bool {
	if h.rl == nil {
		return true
	}
	if h.rl.Allow(c.RealIP()+":"+op, h.rlBurst, h.rlRPS) {
		return true
	}
	h.logger.Warn("rate limited",
		xlogger.String("op", op), xlogger.String("remote", c.RealIP()))
	return false
}
