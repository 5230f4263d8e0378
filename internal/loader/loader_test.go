package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"review_insight/internal/domain"
	"review_insight/internal/loader"
)

const scenarioCSV = `text,rating,date,source
Water was dirty and staff rude,1,2023-01-05,naver
"Great hot spring, clean facility",5,2023-06-10,yanolja
,,,
`

func load(t *testing.T, csv string, opts loader.Options) loader.Dataset {
	t.Helper()
	tbl, err := loader.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	ds, err := loader.Load(tbl, opts)
	require.NoError(t, err)
	return ds
}

func TestLoad_PreservesOrderAndMissingFields(t *testing.T) {
	ds := load(t, scenarioCSV, loader.Options{})

	require.Len(t, ds.Reviews, 3)
	for i, r := range ds.Reviews {
		assert.Equal(t, i, r.ID)
	}
	assert.Equal(t, "Water was dirty and staff rude", ds.Reviews[0].Text)
	require.NotNil(t, ds.Reviews[0].Rating)
	assert.Equal(t, 1, *ds.Reviews[0].Rating)
	require.NotNil(t, ds.Reviews[1].Date)
	assert.Equal(t, time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC), *ds.Reviews[1].Date)
	assert.Equal(t, "yanolja", *ds.Reviews[1].Source)

	empty := ds.Reviews[2]
	assert.Equal(t, "", empty.Text)
	assert.Nil(t, empty.Rating)
	assert.Nil(t, empty.Date)
	assert.Nil(t, empty.Source)
	assert.Empty(t, ds.Warnings, "blank fields are missing, not malformed")
}

func TestLoad_UnparseableDateIsCoerced(t *testing.T) {
	ds := load(t, "review,date\ngood stay,N/A\nfine,2024-02-01\n", loader.Options{})

	require.Len(t, ds.Reviews, 2)
	assert.Nil(t, ds.Reviews[0].Date)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, domain.CoercionWarning{Row: 0, Field: "date", Value: "N/A"}, ds.Warnings[0])
}

func TestLoad_RatingParsing(t *testing.T) {
	cases := []struct {
		in    string
		scale int
		want  *int
		warn  bool
	}{
		{in: "4", want: ptr(4)},
		{in: "4,6", want: ptr(5)},
		{in: "9", want: ptr(5)},
		{in: "0", want: ptr(1)},
		{in: "8", scale: 10, want: ptr(4)},
		{in: "3/5", want: ptr(3)},
		{in: "7/10", want: ptr(4)},
		{in: "★★☆☆☆", want: ptr(2)},
		{in: "great", warn: true},
		{in: "", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			ds := load(t, "text,rating\nx,\""+tc.in+"\"\n", loader.Options{RatingScale: tc.scale})
			assert.Equal(t, tc.want, ds.Reviews[0].Rating)
			assert.Equal(t, tc.warn, len(ds.Warnings) == 1)
		})
	}
}

func TestLoad_DateLayouts(t *testing.T) {
	want := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2023-01-05", "2023/01/05", "2023.01.05.", "2023년 1월 5일", "2023-01-05T10:00:00Z", "01/05/2023"} {
		ds := load(t, "text,date\nx,"+in+"\n", loader.Options{})
		require.NotNil(t, ds.Reviews[0].Date, in)
		assert.Equal(t, want, *ds.Reviews[0].Date, in)
	}
}

func TestLoad_KoreanDateOutOfRange(t *testing.T) {
	for _, in := range []string{"2023년 2월 31일", "2023년 4월 31일", "2023년 13월"} {
		ds := load(t, "text,date\nx,"+in+"\n", loader.Options{})
		assert.Nil(t, ds.Reviews[0].Date, in)
		require.Len(t, ds.Warnings, 1, in)
		assert.Equal(t, domain.CoercionWarning{Row: 0, Field: "date", Value: in}, ds.Warnings[0])
	}

	ds := load(t, "text,date\nx,2024년 2월 29일\n", loader.Options{})
	require.NotNil(t, ds.Reviews[0].Date)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *ds.Reviews[0].Date)
}

func TestLoad_KoreanColumnsAndTitle(t *testing.T) {
	csv := "제목,내용,평점,작성일자,평가,이용자,구분\n" +
		"최고,온천이 정말 좋아요,5,2022.03.01,재방문 의사 있음,홍길동,네이버\n"
	ds := load(t, csv, loader.Options{})

	r := ds.Reviews[0]
	assert.Equal(t, "최고", r.Title)
	assert.Equal(t, "온천이 정말 좋아요\n재방문 의사 있음", r.Text)
	assert.Equal(t, "최고\n온천이 정말 좋아요\n재방문 의사 있음", r.FullText())
	assert.Equal(t, "네이버", *r.Source)
	assert.Equal(t, 5, *r.Rating)
}

func TestReadCSV_EUCKR(t *testing.T) {
	src := "내용,평점\n직원이 친절해요,5\n"
	enc, err := korean.EUCKR.NewEncoder().String(src)
	require.NoError(t, err)

	ds := load(t, enc, loader.Options{})
	assert.Equal(t, "직원이 친절해요", ds.Reviews[0].Text)
}

func TestLoad_StripsMarkup(t *testing.T) {
	ds := load(t, "text\n\"<p>Room was <b>clean</b> &amp; quiet</p>\"\n", loader.Options{})
	assert.Equal(t, "Room was clean & quiet", ds.Reviews[0].Text)
}

func TestLoad_Errors(t *testing.T) {
	_, err := loader.ReadCSV(strings.NewReader(""))
	assertLoadError(t, err, domain.ErrNoRows)

	tbl, err := loader.ReadCSV(strings.NewReader("text,rating\n"))
	require.NoError(t, err)
	_, err = loader.Load(tbl, loader.Options{})
	assertLoadError(t, err, domain.ErrNoRows)

	tbl, err = loader.ReadCSV(strings.NewReader("rating,date\n5,2023-01-01\n"))
	require.NoError(t, err)
	_, err = loader.Load(tbl, loader.Options{})
	assertLoadError(t, err, domain.ErrNoTextColumn)

	_, err = loader.ReadCSV(strings.NewReader("PK\x03\x04\x00\x00binary"))
	assertLoadError(t, err, domain.ErrUndecodable)

	_, err = loader.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assertLoadError(t, err, domain.ErrUndecodable)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(scenarioCSV), 0o600))

	tbl, err := loader.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestFromRecords_ProsConsAndNestedRating(t *testing.T) {
	tbl := loader.FromRecords([]map[string]any{
		{"Pros": []any{"friendly staff"}, "cons": "old rooms", "rating": map[string]any{"value": 8.0}, "date": "2024-05-02"},
	})
	ds, err := loader.Load(tbl, loader.Options{RatingScale: 10})
	require.NoError(t, err)

	r := ds.Reviews[0]
	assert.Equal(t, "Pros: friendly staff\nCons: old rooms", r.Text)
	assert.Equal(t, 4, *r.Rating)
}

func TestFromRecords_CaseDuplicateKeysAreStable(t *testing.T) {
	for i := 0; i < 20; i++ {
		tbl := loader.FromRecords([]map[string]any{{"Text": "upper", "text": "lower", "TEXT": "shout"}})
		require.Len(t, tbl.Rows, 1)
		ds, err := loader.Load(tbl, loader.Options{})
		require.NoError(t, err)
		assert.Equal(t, "shout", ds.Reviews[0].Text)
	}
}

func assertLoadError(t *testing.T, err error, reason error) {
	t.Helper()
	var le *domain.LoadError
	require.True(t, errors.As(err, &le), "want *LoadError, got %v", err)
	assert.ErrorIs(t, err, reason)
}

func ptr[T any](v T) *T { return &v }
