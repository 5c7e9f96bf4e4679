package chansey

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hv1/chansey/defs"
	"hv1/chansey/pkg/http"
	"hv1/chansey/pkg/metrics"
	"hv1/chansey/pkg/mg"
	"hv1/chansey/pkg/oura"
	"hv1/chansey/pkg/report"
)

type Server struct {
	Oura   *oura.Client
	Store  *mg.MongoStore
	HTTP   *http.HttpServer
	Logger *zap.Logger

	patient defs.PatientConfig
}

func New(config defs.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()

	ms, err := mg.New(ctx, config.Mongo, defs.DefaultDB, config.Logger)
	if err != nil {
		return nil, err
	}

	client := oura.New(config.Oura.Token, config.Logger)

	gen := &report.Generator{
		Logger: config.Logger,
		Age:    config.Patient.Age,
		Gender: metrics.Gender(config.Patient.Gender),
	}

	loc := time.Local
	if config.Timezone != "" {
		if loc, err = time.LoadLocation(config.Timezone); err != nil {
			return nil, err
		}
	}

	addr := config.HTTPAddr
	if addr == "" {
		addr = ":4242"
	}
	hs := http.New(ms, gen, config.Patient.Email, addr, loc)

	config.Logger.Debug("finished server setup", zap.String("email", config.Patient.Email))

	return &Server{
		Oura:    client,
		Store:   ms,
		HTTP:    hs,
		Logger:  config.Logger,
		patient: config.Patient,
	}, nil
}

func (s *Server) ExecuteTask(interval time.Duration, task func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for ; true; <-ticker.C {
		task()
	}
}

func (s *Server) RunFetcher() {
	f := Fetcher{
		Source: s.Oura,
		Store:  s.Store,
		Mapper: &oura.Mapper{Email: s.patient.Email, Logger: s.Logger},
		Logger: s.Logger,
	}
	s.ExecuteTask(defs.FetchInterval, func() {
		if err := f.FetchAndLoad(context.Background()); err != nil {
			s.Logger.Error("fetch failed", zap.Error(err))
		}
	})
}

func (s *Server) RunHTTP() {
	if err := s.HTTP.Run(); err != nil {
		s.Logger.Error("http server stopped", zap.Error(err))
	}
}
