package queue

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// Server wraps the asynq server and its task mux.
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates a task processing server for summary tasks.
func NewServer(redisURL string, concurrency int, handler *SummaryHandler) (*Server, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueDefault: 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(LogTaskError),
			Logger:       newAsynqLogger(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateSummary, handler.ProcessTask)

	return &Server{
		asynqServer: srv,
		mux:         mux,
	}, nil
}

// Start starts processing tasks in the background.
func (s *Server) Start() error {
	logger.L().Info("Starting task processing server")
	return s.asynqServer.Start(s.mux)
}

// Stop stops fetching new tasks and waits for in-flight ones.
func (s *Server) Stop() {
	logger.L().Info("Stopping task processing server")
	s.asynqServer.Stop()
	s.asynqServer.Shutdown()
}
