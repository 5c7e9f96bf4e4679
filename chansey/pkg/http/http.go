package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/mg"
	"hv1/chansey/pkg/report"
)

// Samples older than this never enter a report: 30 reference days plus the
// 7-day current window.
const lookbackDays = 37

type httpStore interface {
	mg.SampleStore
}

type HttpServer struct {
	Store     httpStore
	Generator *report.Generator
	Email     string
	Addr      string

	// Loc fixes where "today" rolls over; day boundaries follow the
	// subject's timezone, not the server's.
	Loc *time.Location
}

func New(s httpStore, g *report.Generator, email, addr string, loc *time.Location) *HttpServer {
	if loc == nil {
		loc = time.Local
	}
	return &HttpServer{
		Store:     s,
		Generator: g,
		Email:     email,
		Addr:      addr,
		Loc:       loc,
	}
}

// Run serves the preview endpoints until the process exits.
func (s *HttpServer) Run() error {
	r := gin.Default()

	r.GET("/report", func(c *gin.Context) {
		rep, err := s.generate(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "something went wrong generating report: %v", err)
			return
		}
		c.JSON(http.StatusOK, rep)
	})

	r.GET("/report/text", func(c *gin.Context) {
		rep, err := s.generate(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "something went wrong generating report: %v", err)
			return
		}
		c.String(http.StatusOK, report.RenderText(rep))
	})

	r.GET("/metrics", func(c *gin.Context) {
		samples, now, err := s.read(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "something went wrong reading samples: %v", err)
			return
		}
		c.JSON(http.StatusOK, s.Generator.Metrics(samples, now))
	})

	return r.Run(s.Addr)
}

func (s *HttpServer) generate(c *gin.Context) (*defs.Report, error) {
	samples, now, err := s.read(c)
	if err != nil {
		return nil, err
	}
	return s.Generator.Generate(s.Email, samples, now), nil
}

func (s *HttpServer) read(c *gin.Context) ([]defs.RawSample, time.Time, error) {
	now := midnight(time.Now().In(s.Loc))
	start := now.AddDate(0, 0, -lookbackDays).Format(defs.DayFormat)
	end := now.Format(defs.DayFormat)

	ctx, cancel := context.WithTimeout(c.Request.Context(), defs.TimeoutInterval)
	defer cancel()

	samples, err := s.Store.ReadSamples(ctx, s.Email, start, end)
	if err != nil {
		return nil, now, err
	}
	return samples, now, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
