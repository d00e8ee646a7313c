package debate

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// Gateway is the single path to the generation backend. It resolves the
// effective instruction for an agent, requests schema-conforming output,
// validates the decoded result, and retries transient failures.
type Gateway struct {
	backend  core.Backend
	registry *Registry
	retry    *service.RetryPolicy
	timeout  time.Duration
	log      *logging.Logger
}

// NewGateway creates a gateway over the given backend and persona roster.
// A timeout of 0 disables the per-attempt deadline.
func NewGateway(backend core.Backend, registry *Registry, retry *service.RetryPolicy, timeout time.Duration, log *logging.Logger) *Gateway {
	if retry == nil {
		retry = service.DefaultRetryPolicy()
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Gateway{
		backend:  backend,
		registry: registry,
		retry:    retry,
		timeout:  timeout,
		log:      log,
	}
}

type invokeOptions struct {
	instruction string
	hasOverride bool
	extraCheck  func() error
}

// InvokeOption customizes a single gateway call.
type InvokeOption func(*invokeOptions)

// WithInstruction replaces the agent's persona instruction for this call.
func WithInstruction(instruction string) InvokeOption {
	return func(o *invokeOptions) {
		o.instruction = instruction
		o.hasOverride = true
	}
}

// WithExtraValidation runs an additional check on the decoded result inside
// the retry loop, after schema validation. A failure counts as a malformed
// response and is retried.
func WithExtraValidation(check func() error) InvokeOption {
	return func(o *invokeOptions) {
		o.extraCheck = check
	}
}

// Invoke performs one structured backend call for the given agent. out must
// be a pointer to a StageResult value; its Kind selects the response schema
// and its Validate enforces it after decoding. Transient failures (backend
// errors, malformed responses) are retried per the gateway's policy with a
// warning logged before each sleep; the original failure is preserved once
// retries are exhausted.
func (g *Gateway) Invoke(ctx context.Context, agentID, prompt string, out core.StageResult, opts ...InvokeOption) error {
	var o invokeOptions
	for _, opt := range opts {
		opt(&o)
	}

	instruction := o.instruction
	if !o.hasOverride {
		persona, ok := g.registry.Lookup(agentID)
		if !ok {
			return core.ErrUnknownAgent(agentID)
		}
		instruction = persona.Instruction
	}

	req := core.CompletionRequest{
		AgentID:     agentID,
		Instruction: instruction,
		Prompt:      prompt,
		Schema:      out.Kind(),
	}

	log := g.log.WithAgent(agentID)

	attempt := func(ctx context.Context) error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		log.Debug("backend call",
			"backend", g.backend.Name(),
			"model", g.backend.Model(),
			"schema", string(out.Kind()))

		raw, err := g.backend.Complete(callCtx, req)
		if err != nil {
			// The attempt deadline is local to one call. Only the caller's
			// own cancellation or deadline ends the retry loop.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return core.ErrBackendCall("generation call timed out: " + err.Error())
			}
			var domainErr *core.DomainError
			if !errors.As(err, &domainErr) {
				return core.ErrBackendCall("generation call failed").WithCause(err)
			}
			return err
		}

		// Clear any partial decode left by a previous attempt.
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))

		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return core.ErrMalformedResponse("response is not valid JSON for schema " + string(out.Kind())).WithCause(err)
		}
		if err := out.Validate(); err != nil {
			return err
		}
		if o.extraCheck != nil {
			if err := o.extraCheck(); err != nil {
				return err
			}
		}
		return nil
	}

	notify := func(n int, err error, delay time.Duration) {
		log.Warn("retrying backend call",
			"attempt", n,
			"delay", delay.Round(time.Millisecond).String(),
			"error", err)
	}

	return g.retry.ExecuteWithNotify(ctx, attempt, notify)
}

// Registry returns the persona roster the gateway serves.
func (g *Gateway) Registry() *Registry {
	return g.registry
}
