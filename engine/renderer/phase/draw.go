package phase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer"
)

// ErrDrawFailure is wrapped by every DrawError.
var ErrDrawFailure = errors.New("draw failure")

// DrawError reports the render command that could not record its part of a draw.
type DrawError struct {
	Command string
	Reason  string
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDrawFailure, e.Command, e.Reason)
}

func (e *DrawError) Unwrap() error {
	return ErrDrawFailure
}

// DrawFunctionID identifies a registered draw function.
type DrawFunctionID uint32

// View is what a draw knows about the view it draws for.
type View struct {
	Entity        common.Entity
	Retained      ViewID
	UniformOffset uint32
}

// ResultKind is the outcome class of a render command.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultSkip
	ResultFailure
)

// RenderCommandResult is the outcome of a single render command.
type RenderCommandResult struct {
	Kind   ResultKind
	Reason string
}

var (
	// Success continues with the next command.
	Success = RenderCommandResult{Kind: ResultSuccess}
	// Skip ends the draw without drawing and without error.
	Skip = RenderCommandResult{Kind: ResultSkip}
)

// Failure ends the draw with a DrawError carrying reason.
func Failure(reason string) RenderCommandResult {
	return RenderCommandResult{Kind: ResultFailure, Reason: reason}
}

// RenderCommand records one step of a draw, such as binding a pipeline or issuing the draw call.
type RenderCommand interface {
	// Name identifies the command in draw errors.
	Name() string

	// Render records the command into pass.
	//
	// Parameters:
	//   - view: the view being drawn
	//   - item: the phase item being drawn
	//   - pass: the render pass to record into
	//
	// Returns:
	//   - RenderCommandResult: Success to continue, Skip or Failure to stop the draw
	Render(view View, item *TransparentUi, pass renderer.TrackedRenderPass) RenderCommandResult
}

type renderCommandFunc struct {
	name string
	fn   func(View, *TransparentUi, renderer.TrackedRenderPass) RenderCommandResult
}

var _ RenderCommand = &renderCommandFunc{}

// NewRenderCommand wraps a function as a named render command.
func NewRenderCommand(name string, fn func(View, *TransparentUi, renderer.TrackedRenderPass) RenderCommandResult) RenderCommand {
	return &renderCommandFunc{name: name, fn: fn}
}

func (c *renderCommandFunc) Name() string {
	return c.name
}

func (c *renderCommandFunc) Render(view View, item *TransparentUi, pass renderer.TrackedRenderPass) RenderCommandResult {
	return c.fn(view, item, pass)
}

// SetItemPipeline binds the item's specialized pipeline, skipping the draw when it has none.
func SetItemPipeline() RenderCommand {
	return NewRenderCommand("SetItemPipeline", func(_ View, item *TransparentUi, pass renderer.TrackedRenderPass) RenderCommandResult {
		if item.Pipeline == nil {
			return Skip
		}
		pass.SetRenderPipeline(item.Pipeline)
		return Success
	})
}

// Draw records everything one phase item needs into a render pass.
type Draw interface {
	// Draw records the item.
	//
	// Parameters:
	//   - pass: the render pass to record into
	//   - view: the view being drawn
	//   - item: the phase item being drawn
	//
	// Returns:
	//   - error: a *DrawError when a command fails
	Draw(pass renderer.TrackedRenderPass, view View, item *TransparentUi) error
}

// RenderCommands runs its commands in order as one Draw.
type RenderCommands []RenderCommand

var _ Draw = RenderCommands{}

func (c RenderCommands) Draw(pass renderer.TrackedRenderPass, view View, item *TransparentUi) error {
	for _, cmd := range c {
		result := cmd.Render(view, item, pass)
		switch result.Kind {
		case ResultSkip:
			return nil
		case ResultFailure:
			return &DrawError{Command: cmd.Name(), Reason: result.Reason}
		}
	}
	return nil
}

// DrawFunctions is the registry phase items name their draw by.
type DrawFunctions struct {
	mu    *sync.RWMutex
	draws []Draw
	ids   map[string]DrawFunctionID
}

// NewDrawFunctions creates an empty registry.
func NewDrawFunctions() *DrawFunctions {
	return &DrawFunctions{
		mu:  &sync.RWMutex{},
		ids: make(map[string]DrawFunctionID),
	}
}

// Add registers d under name and returns its id. Adding a name twice replaces the draw and keeps the id.
//
// Parameters:
//   - name: the unique name of the draw function
//   - d: the draw
//
// Returns:
//   - DrawFunctionID: the id phase items use to refer to the draw
func (f *DrawFunctions) Add(name string, d Draw) DrawFunctionID {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id, ok := f.ids[name]; ok {
		f.draws[id] = d
		return id
	}
	id := DrawFunctionID(len(f.draws))
	f.draws = append(f.draws, d)
	f.ids[name] = id
	return id
}

// ID returns the id registered for name.
func (f *DrawFunctions) ID(name string) (DrawFunctionID, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.ids[name]
	return id, ok
}

// Get returns the draw registered under id.
func (f *DrawFunctions) Get(id DrawFunctionID) (Draw, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if int(id) >= len(f.draws) {
		return nil, false
	}
	return f.draws[id], true
}
