package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediator "github.com/gragra33/blazing-mediator"
)

// Marker capabilities for constraint tests.

type Audited interface {
	AuditLabel() string
}

// Prioritized extends Audited, so implementing it satisfies an Audited
// constraint transitively.
type Prioritized interface {
	Audited
	Priority() int
}

type AuditedCommand struct {
	Label string
}

func (c *AuditedCommand) AuditLabel() string { return c.Label }

type UrgentCommand struct {
	Level int
}

func (c *UrgentCommand) AuditLabel() string { return "urgent" }
func (c *UrgentCommand) Priority() int      { return c.Level }

type PlainCommand struct{}

func registerNopHandlers(t *testing.T, m *mediator.Mediator) {
	t.Helper()
	nop := mediator.RequestHandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, nil
	})
	require.NoError(t, mediator.RegisterHandler[*AuditedCommand](m, nop))
	require.NoError(t, mediator.RegisterHandler[*UrgentCommand](m, nop))
	require.NoError(t, mediator.RegisterHandler[*PlainCommand](m, nop))
}

func TestConstraint_FiltersByInterface(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	registerNopHandlers(t, m)

	require.NoError(t, m.Use(tracingMiddleware("audit", log), mediator.AppliesTo[Audited]()))

	_, err := m.Send(context.Background(), &AuditedCommand{Label: "a"})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &PlainCommand{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Before-audit", "After-audit"}, log.all(),
		"constrained middleware must run for implementing types only")
}

func TestConstraint_TransitiveInterfaceMatches(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	registerNopHandlers(t, m)

	require.NoError(t, m.Use(tracingMiddleware("audit", log), mediator.AppliesTo[Audited]()))

	// UrgentCommand implements Audited only through Prioritized.
	_, err := m.Send(context.Background(), &UrgentCommand{Level: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"Before-audit", "After-audit"}, log.all())
}

func TestConstraint_MultipleConstraintsRunOnce(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	registerNopHandlers(t, m)

	// UrgentCommand satisfies both constraints; the middleware must still
	// run exactly once per dispatch.
	require.NoError(t, m.Use(tracingMiddleware("both", log),
		mediator.AppliesTo[Audited](), mediator.AppliesTo[Prioritized]()))

	_, err := m.Send(context.Background(), &UrgentCommand{Level: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"Before-both", "After-both"}, log.all())
}

func TestConstraint_RuntimePredicateSkipsPerValue(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	registerNopHandlers(t, m)

	require.NoError(t, m.Use(tracingMiddleware("priority", log),
		mediator.AppliesTo[Prioritized](),
		mediator.When(func(value any) bool {
			return value.(Prioritized).Priority() >= 5
		})))

	_, err := m.Send(context.Background(), &UrgentCommand{Level: 1})
	require.NoError(t, err)
	assert.Empty(t, log.all(), "predicate rejecting the value must skip the middleware")

	_, err = m.Send(context.Background(), &UrgentCommand{Level: 9})
	require.NoError(t, err)
	assert.Equal(t, []string{"Before-priority", "After-priority"}, log.all())
}

func TestConstraint_StrictRejectsNonInterface(t *testing.T) {
	m := mediator.New(mediator.WithConstraintOptions(mediator.ConstraintOptions{
		Strictness: mediator.StrictnessStrict,
	}))

	err := m.Use(tracingMiddleware("bad", &callLog{}), mediator.AppliesTo[AuditedCommand]())

	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrInvalidConstraint)

	var constraintErr *mediator.ConstraintError
	assert.ErrorAs(t, err, &constraintErr)
}

func TestConstraint_LenientDropsBadConstraint(t *testing.T) {
	warned := &capturingLogger{}
	m := mediator.New(
		mediator.WithLogger(warned),
		mediator.WithConstraintOptions(mediator.ConstraintOptions{
			Strictness: mediator.StrictnessLenient,
		}))

	err := m.Use(tracingMiddleware("bad", &callLog{}), mediator.AppliesTo[AuditedCommand]())

	require.NoError(t, err)
	assert.NotEmpty(t, warned.warnings, "lenient mode must log the dropped constraint")
}

func TestConstraint_DisabledSkipsValidation(t *testing.T) {
	m := mediator.New(mediator.WithConstraintOptions(mediator.ConstraintOptions{
		Strictness: mediator.StrictnessDisabled,
	}))

	err := m.Use(tracingMiddleware("bad", &callLog{}), mediator.AppliesTo[AuditedCommand]())

	assert.NoError(t, err)
}

func TestConstraint_MaxConstraintsEnforced(t *testing.T) {
	m := mediator.New(mediator.WithConstraintOptions(mediator.ConstraintOptions{
		Strictness:     mediator.StrictnessStrict,
		MaxConstraints: 1,
	}))

	err := m.Use(tracingMiddleware("many", &callLog{}),
		mediator.AppliesTo[Audited](), mediator.AppliesTo[Prioritized]())

	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrInvalidConstraint)
}

// capturingLogger records warning messages for assertions.
type capturingLogger struct {
	warnings []string
}

func (l *capturingLogger) Log(level, message string, metadata map[string]any) {
	if level == mediator.LevelWarn {
		l.warnings = append(l.warnings, message)
	}
}
