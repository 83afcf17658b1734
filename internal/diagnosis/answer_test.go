package diagnosis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/jdegraft/openmrs-module-emrapi/internal/diagnosis"
	"github.com/jdegraft/openmrs-module-emrapi/internal/model"
)

// ---------- helpers ----------

var errNotFound = errors.New("not found")

// fakeService resolves concepts and names from in-memory maps.
type fakeService struct {
	concepts map[int]*model.Concept
	names    map[int]*model.ConceptName
	calls    int
}

func newFakeService(concepts ...*model.Concept) *fakeService {
	s := &fakeService{
		concepts: make(map[int]*model.Concept),
		names:    make(map[int]*model.ConceptName),
	}
	for _, c := range concepts {
		s.concepts[c.ID] = c
		for _, n := range c.Names {
			s.names[n.ID] = n
		}
	}
	return s
}

func (s *fakeService) GetConcept(_ context.Context, id int) (*model.Concept, error) {
	s.calls++
	c, ok := s.concepts[id]
	if !ok {
		return nil, fmt.Errorf("concept %d: %w", id, errNotFound)
	}
	return c, nil
}

func (s *fakeService) GetConceptName(_ context.Context, id int) (*model.ConceptName, error) {
	s.calls++
	n, ok := s.names[id]
	if !ok {
		return nil, fmt.Errorf("concept name %d: %w", id, errNotFound)
	}
	return n, nil
}

func newConcept(id int) *model.Concept {
	return &model.Concept{ID: id, UUID: uuid.New()}
}

func addName(c *model.Concept, id int, name string, locale language.Tag, preferred bool) *model.ConceptName {
	n := &model.ConceptName{ID: id, UUID: uuid.New(), Name: name, Locale: locale, LocalePreferred: preferred}
	c.AddName(n)
	return n
}

// myocardialInfarction builds a concept with English and French preferred
// names plus the English synonym "MI".
func myocardialInfarction() (*model.Concept, *model.ConceptName) {
	c := newConcept(100)
	addName(c, 1001, "Myocardial Infarction", language.English, true)
	addName(c, 1002, "Infarctus du myocarde", language.French, true)
	mi := addName(c, 1003, "MI", language.English, false)
	return c, mi
}

// ---------- construction ----------

func TestNewSpecificCodedAnswer_DerivesConcept(t *testing.T) {
	c, mi := myocardialInfarction()
	a := diagnosis.NewSpecificCodedAnswer(mi)

	if a.CodedAnswer() != c {
		t.Errorf("CodedAnswer: got %v, want concept %d", a.CodedAnswer(), c.ID)
	}
	if a.SpecificCodedAnswer() != mi {
		t.Errorf("SpecificCodedAnswer: got %v, want %v", a.SpecificCodedAnswer(), mi)
	}
	if _, ok := a.NonCodedAnswer(); ok {
		t.Error("specific answer should not be free text")
	}
}

func TestNewCodedAnswer(t *testing.T) {
	c, _ := myocardialInfarction()
	a := diagnosis.NewCodedAnswer(c)
	if a.CodedAnswer() != c {
		t.Errorf("CodedAnswer: got %v, want %v", a.CodedAnswer(), c)
	}
	if a.SpecificCodedAnswer() != nil {
		t.Errorf("SpecificCodedAnswer: got %v, want nil", a.SpecificCodedAnswer())
	}
}

func TestNewNonCodedAnswer(t *testing.T) {
	a := diagnosis.NewNonCodedAnswer("headache after fall")
	text, ok := a.NonCodedAnswer()
	if !ok || text != "headache after fall" {
		t.Errorf("NonCodedAnswer: got (%q, %v)", text, ok)
	}
	if a.CodedAnswer() != nil {
		t.Error("free-text answer should have no coded answer")
	}
}

func TestSetters_SwitchVariant(t *testing.T) {
	c, mi := myocardialInfarction()
	other := newConcept(200)

	var a diagnosis.CodedOrFreeTextAnswer
	if !a.IsZero() {
		t.Fatal("zero value should be absent")
	}

	a.SetNonCodedAnswer("stale text")
	a.SetSpecificCodedAnswer(mi)
	if _, ok := a.NonCodedAnswer(); ok {
		t.Error("setting a specific name should clear free text")
	}
	if a.CodedAnswer() != c {
		t.Error("setting a specific name should set the owning concept")
	}

	a.SetCodedAnswer(other)
	if a.SpecificCodedAnswer() != nil {
		t.Error("setting a different concept should clear the specific name")
	}
	if a.CodedAnswer() != other {
		t.Errorf("CodedAnswer: got %v, want %v", a.CodedAnswer(), other)
	}

	a.SetCodedAnswer(nil)
	if !a.IsZero() {
		t.Error("setting a nil concept should clear the answer")
	}
}

// ---------- equality ----------

func TestEqual(t *testing.T) {
	c, mi := myocardialInfarction()
	other := newConcept(200)
	otherName := addName(other, 2001, "Angina", language.English, true)

	tests := []struct {
		name string
		a, b diagnosis.CodedOrFreeTextAnswer
		want bool
	}{
		{"same concept", diagnosis.NewCodedAnswer(c), diagnosis.NewCodedAnswer(c), true},
		{"both absent", diagnosis.CodedOrFreeTextAnswer{}, diagnosis.CodedOrFreeTextAnswer{}, true},
		{"same specific name", diagnosis.NewSpecificCodedAnswer(mi), diagnosis.NewSpecificCodedAnswer(mi), true},
		{"same text", diagnosis.NewNonCodedAnswer("x"), diagnosis.NewNonCodedAnswer("x"), true},
		{"concept vs name of other concept", diagnosis.NewCodedAnswer(c), diagnosis.NewSpecificCodedAnswer(otherName), false},
		{"concept vs specific name of same concept", diagnosis.NewCodedAnswer(c), diagnosis.NewSpecificCodedAnswer(mi), false},
		{"absent vs present", diagnosis.CodedOrFreeTextAnswer{}, diagnosis.NewCodedAnswer(c), false},
		{"different text", diagnosis.NewNonCodedAnswer("x"), diagnosis.NewNonCodedAnswer("y"), false},
		{"empty text vs absent", diagnosis.NewNonCodedAnswer(""), diagnosis.CodedOrFreeTextAnswer{}, false},
		{"copied concept same uuid", diagnosis.NewCodedAnswer(c), diagnosis.NewCodedAnswer(&model.Concept{ID: c.ID, UUID: c.UUID}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("a.Equal(b): got %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("b.Equal(a): got %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------- parsing ----------

func TestParse_Concept(t *testing.T) {
	c, _ := myocardialInfarction()
	svc := newFakeService(c)

	a, err := diagnosis.Parse(context.Background(), "Concept:100", svc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !a.Equal(diagnosis.NewCodedAnswer(c)) {
		t.Errorf("Parse(Concept:100) = %v, want coded answer for concept 100", a)
	}
}

func TestParse_ConceptName(t *testing.T) {
	c, mi := myocardialInfarction()
	svc := newFakeService(c)

	a, err := diagnosis.Parse(context.Background(), "ConceptName:1003", svc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !a.Equal(diagnosis.NewSpecificCodedAnswer(mi)) {
		t.Errorf("Parse(ConceptName:1003) = %v, want specific answer %v", a, mi)
	}
	if a.CodedAnswer() != c {
		t.Errorf("CodedAnswer: got %v, want concept 100", a.CodedAnswer())
	}
}

func TestParse_NonCoded(t *testing.T) {
	svc := newFakeService()
	for _, text := range []string{"chest pain", "", "Concept:5", "ratio 1:2"} {
		a, err := diagnosis.Parse(context.Background(), "Non-Coded:"+text, svc)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if !a.Equal(diagnosis.NewNonCodedAnswer(text)) {
			t.Errorf("Parse(Non-Coded:%s) = %v", text, a)
		}
	}
	if svc.calls != 0 {
		t.Errorf("free text should not hit the lookup service, got %d calls", svc.calls)
	}
}

func TestParse_UnrecognizedFormat(t *testing.T) {
	svc := newFakeService()
	for _, spec := range []string{"Other:5", "", "concept:5", "Concept", "NonCoded:x", " Concept:5"} {
		_, err := diagnosis.Parse(context.Background(), spec, svc)
		if err == nil {
			t.Errorf("Parse(%q): expected error", spec)
			continue
		}
		if !errors.Is(err, diagnosis.ErrMalformedSpec) {
			t.Errorf("Parse(%q): error %v should match ErrMalformedSpec", spec, err)
		}
		var fe *diagnosis.FormatError
		if !errors.As(err, &fe) || fe.Spec != spec {
			t.Errorf("Parse(%q): expected FormatError carrying the input, got %v", spec, err)
		}
	}
}

func TestParse_NonIntegerID(t *testing.T) {
	svc := newFakeService()
	for _, spec := range []string{"Concept:abc", "ConceptName:", "Concept:1.5"} {
		_, err := diagnosis.Parse(context.Background(), spec, svc)
		if !errors.Is(err, diagnosis.ErrMalformedSpec) {
			t.Errorf("Parse(%q): got %v, want ErrMalformedSpec", spec, err)
		}
	}
}

func TestParse_LookupErrorPropagates(t *testing.T) {
	svc := newFakeService()
	for _, spec := range []string{"Concept:42", "ConceptName:42"} {
		_, err := diagnosis.Parse(context.Background(), spec, svc)
		if !errors.Is(err, errNotFound) {
			t.Errorf("Parse(%q): got %v, want lookup error", spec, err)
		}
		if errors.Is(err, diagnosis.ErrMalformedSpec) {
			t.Errorf("Parse(%q): lookup error should not be reported as malformed", spec)
		}
	}
}

type nilService struct{}

func (nilService) GetConcept(context.Context, int) (*model.Concept, error)         { return nil, nil }
func (nilService) GetConceptName(context.Context, int) (*model.ConceptName, error) { return nil, nil }

func TestParse_NilLookupResult(t *testing.T) {
	_, err := diagnosis.Parse(context.Background(), "Concept:7", nilService{})
	if !errors.Is(err, diagnosis.ErrUnresolvedReference) {
		t.Errorf("got %v, want ErrUnresolvedReference", err)
	}
}

func TestSpec_RoundTrip(t *testing.T) {
	c, mi := myocardialInfarction()
	svc := newFakeService(c)

	for _, a := range []diagnosis.CodedOrFreeTextAnswer{
		diagnosis.NewCodedAnswer(c),
		diagnosis.NewSpecificCodedAnswer(mi),
		diagnosis.NewNonCodedAnswer("dizzy: mild"),
	} {
		parsed, err := diagnosis.Parse(context.Background(), a.Spec(), svc)
		if err != nil {
			t.Fatalf("Parse(%q): %v", a.Spec(), err)
		}
		if !parsed.Equal(a) {
			t.Errorf("round trip of %q: got %v", a.Spec(), parsed)
		}
	}
	if s := (diagnosis.CodedOrFreeTextAnswer{}).Spec(); s != "" {
		t.Errorf("absent answer Spec: got %q, want empty", s)
	}
}
