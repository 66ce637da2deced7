package jsonsource

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"datagraph/data"
	"datagraph/domain/core"
	"datagraph/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Flat(t *testing.T) {
	doc := `{"shape":"flat","data":{"PositiveMood":[1,2,3],"NegativeMood":[3,2.5,1]}}`

	vars, err := Parse("mood", []byte(doc))
	require.NoError(t, err)
	require.Len(t, vars, 2)

	assert.Equal(t, core.VariableKey("PositiveMood"), vars[0].Key)
	assert.Equal(t, dataset.ShapeFlat, vars[0].Shape)
	assert.Equal(t, dataset.FlatSeries{3, 2.5, 1}, vars[1].Flat)
}

func TestParse_Categorical(t *testing.T) {
	doc := `{"shape":"categorical","data":{"Time":["Time1","Time2"]}}`

	vars, err := Parse("categories", []byte(doc))
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, dataset.Categorical{"Time1", "Time2"}, vars[0].Labels)
}

func TestParse_BucketedNamedByDocument(t *testing.T) {
	doc := `{"shape":"bucketed","data":{"Time1":[1,2,3],"Time2":[4,6]}}`

	vars, err := Parse("Happiness", []byte(doc))
	require.NoError(t, err)
	require.Len(t, vars, 1)

	v := vars[0]
	assert.Equal(t, core.VariableKey("Happiness"), v.Key)
	assert.Equal(t, dataset.ShapeBucketed, v.Shape)
	assert.Equal(t, []string{"Time1", "Time2"}, v.Buckets.SortedLabels())
}

func TestParse_BucketedExplicitName(t *testing.T) {
	doc := `{"shape":"bucketed","name":"LifeSatisfaction","data":{"Time1":[1]}}`

	vars, err := Parse("swls", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, core.VariableKey("LifeSatisfaction"), vars[0].Key)
}

func TestParse_MalformedBucketIsSkipped(t *testing.T) {
	doc := `{"shape":"bucketed","data":{"Time1":[1,2],"Time2":"n/a","Time3":[1,"x"]}}`

	vars, err := Parse("Sadness", []byte(doc))
	require.NoError(t, err)

	_, ok := vars[0].Buckets.Bucket("Time1")
	assert.True(t, ok)
	_, ok = vars[0].Buckets.Bucket("Time2")
	assert.False(t, ok)
	_, ok = vars[0].Buckets.Bucket("Time3")
	assert.False(t, ok)
}

func TestParse_Untagged(t *testing.T) {
	doc := `{"PositiveMood":[1,2],"Time":["Time1","Time2"]}`

	vars, err := Parse("mixed", []byte(doc))
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, dataset.ShapeFlat, vars[0].Shape)
	assert.Equal(t, dataset.ShapeCategorical, vars[1].Shape)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"shape":`},
		{"not an object", `[1,2,3]`},
		{"unknown shape", `{"shape":"matrix","data":{}}`},
		{"missing data", `{"shape":"flat"}`},
		{"flat with strings", `{"shape":"flat","data":{"A":[1,"2"]}}`},
		{"categorical with numbers", `{"shape":"categorical","data":{"Time":[1,2]}}`},
		{"untagged mixed array", `{"A":[1,"two"]}`},
		{"untagged scalar", `{"A":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("doc", []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
		})
	}
}

func TestFileSource_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"mood.json":    {Data: []byte(`{"shape":"flat","data":{"PositiveMood":[1,2,3]}}`)},
		"Sadness.json": {Data: []byte(`{"shape":"bucketed","data":{"Time1":[1]}}`)},
		"notes.txt":    {Data: []byte("ignored")},
	}

	sources, err := Discover(fsys, "dir")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "dir:Sadness.json", sources[0].Name())

	vars, err := sources[0].Load(context.Background())
	require.NoError(t, err)
	require.Len(t, vars, 1)
	assert.Equal(t, core.VariableKey("Sadness"), vars[0].Key)
	assert.Equal(t, "dir:Sadness.json", vars[0].Source)
}

func TestFileSource_CanceledContext(t *testing.T) {
	fsys := fstest.MapFS{"mood.json": {Data: []byte(`{"A":[1]}`)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource(fsys, "mood.json", "dir").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSource_LoadsAllDocumentsInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"b.json":     {Data: []byte(`{"shape":"flat","data":{"B":[1,2]}}`)},
		"a.json":     {Data: []byte(`{"shape":"flat","data":{"A":[3,4]}}`)},
		"notes.txt":  {Data: []byte(`ignored`)},
		"times.json": {Data: []byte(`{"Time":["Time1","Time2"]}`)},
	}
	src := NewDirSource(fsys, "dir")
	assert.Equal(t, "dir", src.Name())

	vars, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, vars, 3)
	assert.Equal(t, core.VariableKey("A"), vars[0].Key)
	assert.Equal(t, core.VariableKey("B"), vars[1].Key)
	assert.Equal(t, core.VariableKey("Time"), vars[2].Key)
	assert.Equal(t, "dir:a.json", vars[0].Source)

	fsys["c.json"] = &fstest.MapFile{Data: []byte(`{"C":[5]}`)}
	vars, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, vars, 4)
}

func TestDirSource_InvalidDocumentFailsLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"good.json": {Data: []byte(`{"A":[1]}`)},
		"bad.json":  {Data: []byte(`{not json`)},
	}
	_, err := NewDirSource(fsys, "dir").Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestEmbeddedSamplesParse(t *testing.T) {
	sources, err := Discover(data.Files, "embedded")
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	for _, src := range sources {
		vars, err := src.Load(context.Background())
		require.NoError(t, err, src.Name())
		assert.NotEmpty(t, vars, src.Name())
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	vars := []dataset.Variable{
		dataset.NewFlatVariable("PositiveMood", []float64{1, 2.5}),
		dataset.NewBucketedVariable("Happiness", map[string][]float64{"Time1": {1, 2}, "Time2": {}}),
		dataset.NewCategoricalVariable("Time", []string{"Time1", "Time2"}),
	}

	for _, v := range vars {
		raw, err := EncodePayload(v)
		require.NoError(t, err)

		got, err := DecodePayload(v.Key, v.Shape, raw)
		require.NoError(t, err)
		assert.Equal(t, v.Shape, got.Shape)
		assert.Equal(t, v.Len(), got.Len())
	}
}

func TestDecodePayload_ShapeMismatch(t *testing.T) {
	_, err := DecodePayload("Time", dataset.ShapeFlat, []byte(`["Time1"]`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = DecodePayload("Time", dataset.Shape("matrix"), []byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
