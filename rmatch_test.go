package rmatch

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

type recordedMatch struct {
	pattern string
	start   int
	end     int
}

func TestEngine_AddAndMatch(t *testing.T) {
	eng := New()
	var got []recordedMatch

	if _, err := eng.Add("ab", func(start, end int, id PatternID) {
		got = append(got, recordedMatch{"ab", start, end})
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := eng.Add("cd", func(start, end int, id PatternID) {
		got = append(got, recordedMatch{"cd", start, end})
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := eng.MatchString("xx ab cd xx", nil); err != nil {
		t.Fatalf("MatchString: %v", err)
	}

	sort.Slice(got, func(i, j int) bool { return got[i].start < got[j].start })
	want := []recordedMatch{{"ab", 3, 4}, {"cd", 6, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEngine_AddCompileErrorRejected(t *testing.T) {
	eng := New()
	_, err := eng.Add("a(", nil)
	if err == nil {
		t.Fatal("expected CompileError for unbalanced paren")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v (%T), want *CompileError", err, err)
	}
}

func TestEngine_RemoveRejectedDuringMatch(t *testing.T) {
	eng := New()
	var id PatternID
	id, err := eng.Add("a+", func(start, end int, _ PatternID) {
		if rmErr := eng.Remove(id); rmErr == nil {
			t.Error("expected Remove to be rejected while Match is in flight")
		} else {
			var pe *PreconditionError
			if !errors.As(rmErr, &pe) {
				t.Errorf("err = %v (%T), want *PreconditionError", rmErr, rmErr)
			}
		}
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := eng.MatchString("aaa", nil); err != nil {
		t.Fatalf("MatchString: %v", err)
	}
}

func TestEngine_RemoveAfterMatchSucceeds(t *testing.T) {
	eng := New()
	id, err := eng.Add("a+", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := eng.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestNewWithConfig_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LiteralMinLength = 0
	if _, err := NewWithConfig(cfg); err == nil {
		t.Fatal("expected ConfigError for LiteralMinLength=0")
	}
}

func TestEngine_CaseInsensitiveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CaseInsensitive = true
	eng, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}

	var got []recordedMatch
	if _, err := eng.Add("FOO", func(start, end int, _ PatternID) {
		got = append(got, recordedMatch{"FOO", start, end})
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := eng.MatchString("Foo fOO", nil); err != nil {
		t.Fatalf("MatchString: %v", err)
	}

	sort.Slice(got, func(i, j int) bool { return got[i].start < got[j].start })
	want := []recordedMatch{{"FOO", 0, 2}, {"FOO", 4, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
