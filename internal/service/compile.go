package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yokitheyo/elm-notebook/internal/config"
	"github.com/yokitheyo/elm-notebook/internal/events"
	"github.com/yokitheyo/elm-notebook/internal/model"
	"github.com/yokitheyo/elm-notebook/internal/project"
)

var (
	ErrNoElmCode     = errors.New("no elm code received")
	ErrOutputMissing = errors.New("compiler reported success but produced no output")
)

// Compiler turns one Elm fragment into exactly one outcome. A non-nil error
// means no outcome could be produced.
type Compiler interface {
	Compile(ctx context.Context, fragment string) (model.Outcome, error)
}

type CompileService struct {
	runner     *Runner
	scratchDir string
	publisher  events.Publisher
	logger     *zap.Logger
	newID      func() string
}

func NewCompileService(cfg *config.Config, publisher events.Publisher, logger *zap.Logger) *CompileService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CompileService{
		runner: &Runner{
			Path:           cfg.Compiler.Path,
			Args:           cfg.Compiler.Args,
			Timeout:        cfg.Compiler.Timeout,
			MaxStderrBytes: cfg.Compiler.MaxStderrBytes,
		},
		scratchDir: cfg.Scratch.Dir,
		publisher:  publisher,
		logger:     logger,
		newID:      func() string { return uuid.New().String() },
	}
}

func (s *CompileService) Compile(ctx context.Context, fragment string) (model.Outcome, error) {
	if fragment == "" {
		return model.Outcome{}, ErrNoElmCode
	}

	id := s.newID()
	log := s.logger.With(zap.String("project_id", id))

	p, err := project.Stage(s.scratchDir, id, fragment)
	if p != nil {
		defer func() {
			if err := p.Remove(); err != nil {
				log.Warn("failed to remove project dir", zap.String("dir", p.Dir), zap.Error(err))
			}
		}()
	}
	if err != nil {
		log.Error("staging failed", zap.Error(err))
		return model.Outcome{}, fmt.Errorf("stage project: %w", err)
	}

	res := s.runner.Run(ctx, p.Dir)
	log.Info("compiler exited",
		zap.Stringer("status", res.Status),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
		zap.Bool("stderr_truncated", res.Truncated),
	)

	var outcome model.Outcome
	switch res.Status {
	case RunSucceeded:
		code, err := p.ReadOutput()
		if err != nil {
			log.Error("reading compiled output failed", zap.Error(err))
			return model.Outcome{}, fmt.Errorf("%w: %v", ErrOutputMissing, err)
		}
		outcome = model.Ok(code)
	case RunFailed:
		outcome = model.Err(res.Stderr)
	case RunTimedOut:
		outcome = model.Timeout(res.Err.Error())
	case RunCanceled:
		return model.Outcome{}, res.Err
	default:
		log.Error("compiler could not be launched", zap.Error(res.Err))
		outcome = model.Internal(res.Err.Error())
	}

	evt := events.NewCompileEvent(id, string(outcome.Tag), len(fragment), res.Duration, res.Truncated)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		log.Warn("publish compile event failed", zap.Error(err))
	}
	return outcome, nil
}
