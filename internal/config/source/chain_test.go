package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/forged/internal/config/cache"
	"github.com/dshills/forged/internal/config/catalog"
	"github.com/dshills/forged/internal/config/props"
)

var testSetting = &catalog.Setting{
	Name:     "Test",
	Property: "forge.test",
	EnvVar:   "FORGE_TEST",
}

func TestChain_PriorityOrder(t *testing.T) {
	c := NewChain(testSetting).
		With(Static("s1", "a", true)).
		With(Static("s2", "b", true)).
		With(Static("s3", "c", true))

	v, ok, err := c.Resolve()
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, %v, %v", v, ok, err)
	}
	if v != "a" {
		t.Errorf("Resolve() = %q, want %q", v, "a")
	}
}

func TestChain_PriorityOrderFallthrough(t *testing.T) {
	// Removing s1's value yields "b"; removing both yields "c".
	c := NewChain(testSetting).
		With(Static("s1", "", false)).
		With(Static("s2", "b", true)).
		With(Static("s3", "c", true))
	if v, _, _ := c.Resolve(); v != "b" {
		t.Errorf("Resolve() = %q, want %q", v, "b")
	}

	c = NewChain(testSetting).
		With(Static("s1", "", false)).
		With(Static("s2", "", false)).
		With(Static("s3", "c", true))
	if v, _, _ := c.Resolve(); v != "c" {
		t.Errorf("Resolve() = %q, want %q", v, "c")
	}
}

func TestChain_OverrideWinsOverEverySource(t *testing.T) {
	sys := props.NewSysProps(map[string]string{"forge.test": "from-sysprop"})
	env := props.Environ{"FORGE_TEST": "from-env"}
	store := props.NewStore(sys, env)

	c := NewChain(testSetting).
		WithOverride(map[string]string{"forge.test": "from-override"}).
		WithSystemProperty(sys).
		WithPropertyFile(store, "/nonexistent/forged.properties").
		WithEnvVariable(env).
		WithDefault()

	v, ok, err := c.Resolve()
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, %v, %v", v, ok, err)
	}
	if v != "from-override" {
		t.Errorf("Resolve() = %q, want override to win", v)
	}
}

func TestChain_Laziness(t *testing.T) {
	touched := false
	expensive := NewSource(
		func() string { return "expensive" },
		func() (string, bool, error) {
			touched = true
			return "late", true, nil
		},
	)

	c := NewChain(testSetting).
		With(Static("cheap", "early", true)).
		With(expensive)

	if v, _, _ := c.Resolve(); v != "early" {
		t.Fatalf("Resolve() = %q, want %q", v, "early")
	}
	if touched {
		t.Error("lower-priority source was evaluated after a higher-priority hit")
	}
}

func TestChain_AbsenceWithoutFail(t *testing.T) {
	c := NewChain(testSetting).
		With(Static("s1", "", false)).
		With(Static("s2", "", false))

	v, ok, err := c.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v, want absence, not error", err)
	}
	if ok || v != "" {
		t.Errorf("Resolve() = %q, %v, want absent", v, ok)
	}
}

func TestChain_FailListsAllSourcesInPriorityOrder(t *testing.T) {
	c := NewChain(testSetting).
		With(Static("first place", "", false)).
		With(Static("second place", "", false)).
		With(Static("third place", "", false)).
		WithFail()

	_, _, err := c.Resolve()
	if err == nil {
		t.Fatal("Resolve() succeeded, want ResolutionError")
	}
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("error = %v, want ErrUnresolved", err)
	}

	msg := err.Error()
	for _, desc := range []string{"first place", "second place", "third place"} {
		if !strings.Contains(msg, desc) {
			t.Errorf("error message %q missing source %q", msg, desc)
		}
	}
	if strings.Index(msg, "first place") > strings.Index(msg, "second place") ||
		strings.Index(msg, "second place") > strings.Index(msg, "third place") {
		t.Errorf("error message sources out of priority order: %q", msg)
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatal("error is not a *ResolutionError")
	}
	if len(resErr.Sources) != 3 {
		t.Errorf("ResolutionError.Sources has %d entries, want 3", len(resErr.Sources))
	}
}

func TestChain_Immutability(t *testing.T) {
	base := NewChain(testSetting).With(Static("s1", "", false))
	extended := base.With(Static("s2", "late", true))

	// The original chain still resolves to absence.
	if _, ok, _ := base.Resolve(); ok {
		t.Error("extending a chain mutated the original")
	}
	if v, _, _ := extended.Resolve(); v != "late" {
		t.Errorf("extended chain = %q, want %q", v, "late")
	}
}

func TestChain_WithPropertyFileEmptyPathIsNoop(t *testing.T) {
	store := props.NewStore(props.NewSysProps(nil), props.Environ{})

	c := NewChain(testSetting).WithPropertyFile(store, "")
	c = c.With(Static("fallback", "v", true)).WithFail()

	v, _, err := c.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if v != "v" {
		t.Errorf("Resolve() = %q, want %q", v, "v")
	}
}

func TestChain_WithEnvVariableNoAliasIsNoop(t *testing.T) {
	noAlias := &catalog.Setting{Name: "NoAlias", Property: "forge.no.alias"}
	env := props.Environ{"FORGE_NO_ALIAS": "surprise"}

	c := NewChain(noAlias).WithEnvVariable(env)
	if _, ok, _ := c.Resolve(); ok {
		t.Error("setting without an env alias resolved from the environment")
	}
}

func TestChain_IsSet(t *testing.T) {
	set := NewChain(testSetting).With(Static("s", "v", true))
	if ok, err := set.IsSet(); err != nil || !ok {
		t.Errorf("IsSet() = %v, %v, want true", ok, err)
	}

	optional := &catalog.Setting{Name: "Opt", Property: "forge.opt", Optional: true}
	absent := NewChain(optional).With(Static("s", "", false))
	ok, err := absent.IsSet()
	if err != nil {
		t.Fatalf("IsSet() on optional setting error = %v", err)
	}
	if ok {
		t.Error("IsSet() = true for absent optional setting")
	}

	required := NewChain(testSetting).With(Static("s", "", false))
	if _, err := required.IsSet(); !errors.Is(err, ErrUnresolved) {
		t.Errorf("IsSet() on required setting error = %v, want ErrUnresolved", err)
	}
}

func TestChain_WithCacheMemoizes(t *testing.T) {
	session := cache.NewSession()
	sys := props.NewSysProps(map[string]string{"forge.test": "first"})

	c := NewChain(testSetting).WithSystemProperty(sys).WithCache(session)
	if v, _, _ := c.Resolve(); v != "first" {
		t.Fatalf("Resolve() = %q, want %q", v, "first")
	}

	// Mutating the underlying source must not change the second
	// resolution within the same session.
	sys.Set("forge.test", "second")
	if v, _, _ := c.Resolve(); v != "first" {
		t.Errorf("Resolve() after source mutation = %q, want memoized %q", v, "first")
	}
}

func TestChain_CacheSharedAcrossChains(t *testing.T) {
	session := cache.NewSession()

	first := NewChain(testSetting).With(Static("s", "resolved", true)).WithCache(session)
	if _, _, err := first.Resolve(); err != nil {
		t.Fatal(err)
	}

	// A fresh chain for the same setting reads the memo without walking
	// its own (empty) sources.
	second := NewChain(testSetting).WithFail().WithCache(session)
	v, ok, err := second.Resolve()
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, %v, %v", v, ok, err)
	}
	if v != "resolved" {
		t.Errorf("Resolve() = %q, want memoized %q", v, "resolved")
	}
}
