package property

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-binder/internal/binding"
)

type Address struct {
	Street string
	City   string
}

type Item struct {
	SKU      string
	Quantity int
}

type Audit struct {
	UpdatedBy string
}

func (a *Audit) SetUpdatedBy(s string) {
	a.UpdatedBy = strings.TrimSpace(s)
}

type Base struct {
	CreatedBy string
}

type Person struct {
	Base
	*Audit

	Name    string
	Age     int    `validate:"gte=0,lte=150"`
	Email   string `prop:"email"`
	ID      string `prop:"id,readonly"`
	Secret  string `prop:"-"`
	Status  string
	Score   int
	Address *Address
	Tags    []string
	Labels  map[string]string
	Items   []Item
	Meta    map[string]any
	Timeout time.Duration
	Nick    *string
}

func (p *Person) SetStatus(s string) error {
	if s == "" {
		return errors.New("status must not be empty")
	}

	p.Status = strings.ToUpper(s)

	return nil
}

func (p *Person) SetScore(n int) {
	if n < 0 {
		panic("negative score")
	}

	p.Score = n
}

type point struct {
	X, Y int
}

func newPerson() *Person {
	return &Person{Name: "Ada", Age: 36, ID: "p-1", Tags: []string{"a"}}
}

func mustAccessor(t *testing.T, root any, opts ...Option) *Accessor {
	t.Helper()

	a, err := New(root, opts...)
	require.NoError(t, err)

	return a
}

func requireKind(t *testing.T, err error, kind binding.Kind) *binding.PropertyError {
	t.Helper()

	var pe *binding.PropertyError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, kind, pe.Kind, "error: %v", err)

	return pe
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(Person{})
	require.Error(t, err)

	var p *Person
	_, err = New(p)
	require.Error(t, err)

	var m map[string]any
	_, err = New(m)
	require.Error(t, err)

	a, err := New(map[string]any{})
	require.NoError(t, err)
	assert.NotNil(t, a.Root())
}

func TestAccessor_SimpleFields(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p)

	require.NoError(t, a.Write("Name", "Grace"))
	require.NoError(t, a.Write("email", "grace@example.com"))
	require.NoError(t, a.Write("Email", "g@example.com"))
	require.NoError(t, a.Write("Age", "42"))
	require.NoError(t, a.Write("Timeout", "1m30s"))
	require.NoError(t, a.Write("Nick", "gh"))
	require.NoError(t, a.Write("CreatedBy", "admin"))

	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "g@example.com", p.Email)
	assert.Equal(t, 42, p.Age)
	assert.Equal(t, 90*time.Second, p.Timeout)
	require.NotNil(t, p.Nick)
	assert.Equal(t, "gh", *p.Nick)
	assert.Equal(t, "admin", p.CreatedBy)

	v, err := a.Read("Name")
	require.NoError(t, err)
	assert.Equal(t, "Grace", v)
}

func TestAccessor_NotWritable(t *testing.T) {
	a := mustAccessor(t, newPerson())

	pe := requireKind(t, a.Write("id", "p-2"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrReadOnly)

	pe = requireKind(t, a.Write("Secret", "x"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrNoSuchProperty)

	pe = requireKind(t, a.Write("Nmae", "x"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrNoSuchProperty)
	assert.Equal(t, []string{"Name"}, pe.Suggestions)
	assert.Equal(t, "Nmae", pe.Path)

	pe = requireKind(t, a.WriteScoped(binding.Scope{IgnoreUnknown: true}, "Nmae", "x"), binding.KindNotWritable)
	assert.Empty(t, pe.Suggestions)

	pe = requireKind(t, a.Write("Name.First", "x"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrNoSuchProperty)

	requireKind(t, a.Write("bad..path", "x"), binding.KindNotWritable)
}

func TestAccessor_ReadOnlyFieldIsReadable(t *testing.T) {
	a := mustAccessor(t, newPerson())

	v, err := a.Read("id")
	require.NoError(t, err)
	assert.Equal(t, "p-1", v)
	assert.True(t, a.IsReadable("id"))
	assert.False(t, a.IsWritable("id"))
}

func TestAccessor_NilIntermediate(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p)

	pe := requireKind(t, a.Write("Address.Street", "Main St"), binding.KindNullPath)
	require.ErrorIs(t, pe, binding.ErrNilPath)
	assert.Contains(t, pe.Error(), `"Address"`)

	requireKind(t, a.Write("UpdatedBy", "ops"), binding.KindNullPath)
	requireKind(t, a.Write("Labels[env]", "prod"), binding.KindNullPath)
	requireKind(t, a.Write("Meta.owner", "ops"), binding.KindNullPath)
	requireKind(t, a.Write("Items[0].SKU", "X1"), binding.KindNullPath)

	_, err := a.Read("Address.Street")
	requireKind(t, err, binding.KindNullPath)
}

func TestAccessor_AutoGrow(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p, WithAutoGrow(true))

	require.NoError(t, a.Write("Address.Street", "Main St"))
	require.NoError(t, a.Write("UpdatedBy", " ops "))
	require.NoError(t, a.Write("Labels[env]", "prod"))
	require.NoError(t, a.Write("Meta.owner.team", "core"))
	require.NoError(t, a.Write("Items[1].SKU", "X1"))
	require.NoError(t, a.Write("Tags[2]", "c"))

	require.NotNil(t, p.Address)
	assert.Equal(t, "Main St", p.Address.Street)
	require.NotNil(t, p.Audit)
	assert.Equal(t, "ops", p.UpdatedBy)
	assert.Equal(t, map[string]string{"env": "prod"}, p.Labels)
	assert.Equal(t, map[string]any{"owner": map[string]any{"team": "core"}}, p.Meta)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "X1", p.Items[1].SKU)
	assert.Equal(t, []string{"a", "", "c"}, p.Tags)

	v, err := a.Read("Meta.owner.team")
	require.NoError(t, err)
	assert.Equal(t, "core", v)
}

func TestAccessor_PromotedSetterBehindNilPointer(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p)

	pe := requireKind(t, a.Write("UpdatedBy", "ops"), binding.KindNullPath)
	require.ErrorIs(t, pe, binding.ErrNilPath)

	batch := binding.Assignments{}.Add("UpdatedBy", "ops").Add("Name", "Grace")

	err := binding.Apply(a, batch, binding.Flags{})
	requireKind(t, err, binding.KindNullPath)
	assert.Equal(t, "Ada", p.Name)

	require.NoError(t, binding.Apply(a, batch, binding.Flags{IgnoreInvalid: true}))
	assert.Equal(t, "Grace", p.Name)
	assert.Nil(t, p.Audit)
}

func TestAccessor_AutoGrowDocumentLists(t *testing.T) {
	doc := map[string]any{"server": map[string]any{}}
	a := mustAccessor(t, doc, WithAutoGrow(true), WithGrowLimit(8))

	require.NoError(t, a.Write("server.hosts[0]", "h"))
	require.NoError(t, a.Write("server.hosts[2]", "j"))
	require.NoError(t, a.Write("server.labels[env]", "prod"))
	require.NoError(t, a.Write("matrix[1][0]", 5))

	server := doc["server"].(map[string]any)
	assert.Equal(t, []any{"h", nil, "j"}, server["hosts"])
	assert.Equal(t, map[string]any{"env": "prod"}, server["labels"])
	assert.Equal(t, []any{nil, []any{5}}, doc["matrix"])

	v, err := a.Read("server.hosts[2]")
	require.NoError(t, err)
	assert.Equal(t, "j", v)

	requireKind(t, a.Write("grid[8]", 1), binding.KindNullPath)
	assert.NotContains(t, doc, "grid")
}

func TestAccessor_GrowLimit(t *testing.T) {
	a := mustAccessor(t, newPerson(), WithAutoGrow(true), WithGrowLimit(4))

	require.NoError(t, a.Write("Tags[3]", "d"))

	pe := requireKind(t, a.Write("Tags[4]", "e"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrIndexOutOfRange)
}

func TestAccessor_IndexOutOfRange(t *testing.T) {
	a := mustAccessor(t, newPerson())

	require.NoError(t, a.Write("Tags[0]", "z"))

	pe := requireKind(t, a.Write("Tags[5]", "x"), binding.KindNotWritable)
	require.ErrorIs(t, pe, binding.ErrIndexOutOfRange)

	requireKind(t, a.Write("Tags[x]", "x"), binding.KindNotWritable)

	_, err := a.Read("Tags[5]")
	requireKind(t, err, binding.KindNotReadable)
}

func TestAccessor_ValueRejected(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p, WithOldValues(true), WithValidator(validator.New()))

	pe := requireKind(t, a.Write("Age", "old"), binding.KindValueRejected)
	assert.Equal(t, binding.CodeTypeMismatch, pe.Code)
	assert.Equal(t, 36, pe.OldValue)
	require.ErrorIs(t, pe, binding.ErrTypeMismatch)

	pe = requireKind(t, a.Write("Age", 300), binding.KindValueRejected)
	assert.Equal(t, binding.CodeValidation, pe.Code)
	assert.Equal(t, 36, p.Age)

	pe = requireKind(t, a.Write("Name", nil), binding.KindValueRejected)
	assert.Equal(t, binding.CodeTypeMismatch, pe.Code)
}

func TestAccessor_Rules(t *testing.T) {
	doc := map[string]any{"port": 80}
	a := mustAccessor(t, doc,
		WithOldValues(true),
		WithRules(map[string]string{"port": "min=1,max=65535", "name": "no_such_tag"}))

	pe := requireKind(t, a.Write("port", 70000), binding.KindValueRejected)
	assert.Equal(t, binding.CodeValidation, pe.Code)
	assert.Equal(t, 80, pe.OldValue)
	assert.Equal(t, 80, doc["port"])

	require.NoError(t, a.Write("port", 443))
	assert.Equal(t, 443, doc["port"])

	pe = requireKind(t, a.Write("name", "x"), binding.KindValueRejected)
	assert.Contains(t, pe.Error(), "invalid rule")

	p := newPerson()
	a = mustAccessor(t, p, WithRules(map[string]string{"Age": "lte=99"}))

	requireKind(t, a.Write("Age", 120), binding.KindValueRejected)
	requireKind(t, a.Write("Age", -1), binding.KindValueRejected)
	require.NoError(t, a.Write("Age", 99))
	assert.Equal(t, 99, p.Age)
}

func TestCheckRule(t *testing.T) {
	require.NoError(t, CheckRule("min=1,max=65535"))
	require.NoError(t, CheckRule(""))
	require.Error(t, CheckRule("no_such_tag"))
}

func TestAccessor_Setters(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p)

	require.NoError(t, a.Write("Status", "active"))
	assert.Equal(t, "ACTIVE", p.Status)

	pe := requireKind(t, a.Write("Status", ""), binding.KindValueRejected)
	assert.Equal(t, binding.CodeMethodInvocation, pe.Code)
	assert.Equal(t, "ACTIVE", p.Status)

	require.NoError(t, a.Write("Score", 7))
	assert.Equal(t, 7, p.Score)

	pe = requireKind(t, a.Write("Score", -1), binding.KindValueRejected)
	assert.Equal(t, binding.CodeMethodInvocation, pe.Code)
	assert.Contains(t, pe.Error(), "negative score")
}

func TestAccessor_MapDocument(t *testing.T) {
	doc := map[string]any{
		"server": map[string]any{"port": 80, "hosts": []any{"a", "b"}},
		"origin": point{X: 1, Y: 2},
		"empty":  nil,
	}
	a := mustAccessor(t, doc)

	require.NoError(t, a.Write("server.port", 8080))
	require.NoError(t, a.Write("server.hosts[1]", "c"))
	require.NoError(t, a.Write("origin.X", 5))
	require.NoError(t, a.Write("name", "svc"))
	require.NoError(t, a.Write("server['tls.enabled']", true))

	server := doc["server"].(map[string]any)
	assert.Equal(t, 8080, server["port"])
	assert.Equal(t, []any{"a", "c"}, server["hosts"])
	assert.Equal(t, true, server["tls.enabled"])
	assert.Equal(t, point{X: 5, Y: 2}, doc["origin"])
	assert.Equal(t, "svc", doc["name"])

	requireKind(t, a.Write("empty.x", 1), binding.KindNullPath)
	requireKind(t, a.Write("missing.x", 1), binding.KindNullPath)

	pe := requireKind(t, a.Write("origin.Z", 1), binding.KindNotWritable)
	assert.Contains(t, pe.Suggestions, "X")

	v, err := a.Read("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = a.Read("server.hosts[0]")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestAccessor_TagName(t *testing.T) {
	type config struct {
		ListenAddr string `yaml:"listen_addr"`
	}

	c := &config{}
	a := mustAccessor(t, c, WithTagName("yaml"))

	require.NoError(t, a.Write("listen_addr", ":8080"))
	assert.Equal(t, ":8080", c.ListenAddr)

	pe := requireKind(t, a.Write("listen_adr", ":9090"), binding.KindNotWritable)
	assert.Equal(t, []string{"listen_addr"}, pe.Suggestions)
}

func TestAccessor_IsWritable(t *testing.T) {
	a := mustAccessor(t, newPerson())

	tests := []struct {
		path     string
		expected bool
	}{
		{"Name", true},
		{"email", true},
		{"id", false},
		{"Secret", false},
		{"Address.Street", true},
		{"Address.Nope", false},
		{"Items[0].SKU", true},
		{"Labels[env]", true},
		{"Meta.anything.goes", true},
		{"Name.First", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.IsWritable(tt.path))
		})
	}
}

func TestAccessor_WithApply(t *testing.T) {
	p := newPerson()
	a := mustAccessor(t, p)

	batch := binding.Assignments{}.
		Add("Name", "Grace").
		Add("Age", "abc").
		Add("Unknown", 1).
		Add("Address.Street", "Main").
		Add("Score", -3).
		Add("Email", "g@example.com")

	err := binding.Apply(a, batch, binding.Flags{IgnoreUnknown: true, IgnoreInvalid: true})

	var be *binding.BatchError
	require.ErrorAs(t, err, &be)
	require.Equal(t, 2, be.Len())
	assert.Equal(t, "Age", be.Failures()[0].Path)
	assert.Equal(t, "Score", be.Failures()[1].Path)
	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "g@example.com", p.Email)

	err = binding.Apply(a, batch, binding.Flags{})
	pe := requireKind(t, err, binding.KindNotWritable)
	assert.Equal(t, "Unknown", pe.Path)
}
