package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type diffBase struct {
	ID string `json:"id"`
}

type diffSubject struct {
	diffBase
	Name    string `json:"name"`
	Website string `json:"website"`
	Secret  string `json:"secret" audit:"redact"`
	Scratch string `json:"scratch" audit:"-"`
	hidden  string
}

func TestDiffChangedFieldsOnly(t *testing.T) {
	before := &diffSubject{Name: "Northwind", Website: "https://old.example"}
	after := &diffSubject{Name: "Northwind", Website: "https://new.example"}

	changes := Diff(before, after)

	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{From: "https://old.example", To: "https://new.example"}, changes["website"])
}

func TestDiffNoChanges(t *testing.T) {
	row := &diffSubject{Name: "Northwind"}

	assert.Nil(t, Diff(row, row))
	assert.Nil(t, Diff(nil, nil))
}

func TestDiffCreateHasNoBefore(t *testing.T) {
	after := &diffSubject{Name: "Northwind"}

	changes := Diff(nil, after)

	require.NotNil(t, changes)
	assert.Equal(t, FieldChange{From: "", To: "Northwind"}, changes["name"])
}

func TestDiffDeleteHasNoAfter(t *testing.T) {
	before := &diffSubject{Name: "Northwind"}

	changes := Diff(before, nil)

	require.NotNil(t, changes)
	assert.Equal(t, FieldChange{From: "Northwind", To: ""}, changes["name"])
}

func TestDiffRedactsTaggedFields(t *testing.T) {
	before := &diffSubject{Secret: "old-token"}
	after := &diffSubject{Secret: "new-token"}

	changes := Diff(before, after)

	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{From: Redacted, To: Redacted}, changes["secret"])
}

func TestDiffSkipsExcludedAndUnexportedFields(t *testing.T) {
	before := &diffSubject{Scratch: "a", hidden: "x"}
	after := &diffSubject{Scratch: "b", hidden: "y"}

	assert.Nil(t, Diff(before, after))
}

func TestDiffFlattensEmbeddedStructs(t *testing.T) {
	before := &diffSubject{diffBase: diffBase{ID: "1"}}
	after := &diffSubject{diffBase: diffBase{ID: "2"}}

	changes := Diff(before, after)

	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{From: "1", To: "2"}, changes["id"])
}

func TestDiffMismatchedTypes(t *testing.T) {
	assert.Nil(t, Diff(&diffSubject{Name: "a"}, &diffBase{ID: "b"}))
}

func TestDiffNonStructInputs(t *testing.T) {
	assert.Nil(t, Diff("before", "after"))
	assert.Nil(t, Diff(1, 2))
}
