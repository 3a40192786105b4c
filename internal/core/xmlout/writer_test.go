package xmlout

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"csv2xml/internal/core/csvsource"
	perr "csv2xml/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// render writes rows of header through a fresh Writer and returns the document
func render(t *testing.T, header []string, rows [][]string, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	s := csvsource.NewSchema(header)
	w, err := NewWriter(&buf, s, opts...)
	require.NoError(t, err)
	rec := csvsource.NewRecord(s)
	for _, row := range rows {
		rec.SetValues(row)
		require.NoError(t, w.WriteRecord(rec))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, len(rows), w.Rows())
	return buf.String()
}

func TestWriter_Compact(t *testing.T) {
	got := render(t,
		[]string{"id", "name", "CUEX_foo"},
		[][]string{{"1", "bob", ""}, {"2", "", "bar"}},
		WithHeader(false),
	)
	want := `<Records>` +
		`<Record><id>1</id><name>bob</name></Record>` +
		`<Record><id>2</id><CustomerExtensions><foo>bar</foo></CustomerExtensions></Record>` +
		`</Records>`
	assert.Equal(t, want, got)
}

func TestWriter_Indented(t *testing.T) {
	got := render(t,
		[]string{"id", "CUEX_bar"},
		[][]string{{"2", "hello"}},
		WithIndent("", "  "),
	)
	want := xml.Header +
		"<Records>\n" +
		"  <Record>\n" +
		"    <id>2</id>\n" +
		"    <CustomerExtensions>\n" +
		"      <bar>hello</bar>\n" +
		"    </CustomerExtensions>\n" +
		"  </Record>\n" +
		"</Records>\n"
	assert.Equal(t, want, got)
}

func TestWriter_EmptyDocument(t *testing.T) {
	got := render(t, []string{"id"}, nil, WithHeader(false))
	assert.Equal(t, "<Records></Records>", got)
}

func TestWriter_EmptyRowStillWritesRecord(t *testing.T) {
	got := render(t, []string{"a", "CUEX_b"}, [][]string{{"", ""}}, WithHeader(false))
	assert.Equal(t, "<Records><Record></Record></Records>", got)
}

func TestWriter_CustomNames(t *testing.T) {
	got := render(t,
		[]string{"sku", "CUEX_color"},
		[][]string{{"A1", "red"}},
		WithHeader(false),
		WithRoot("Items"),
		WithRecord("Item"),
		WithExtensionsTag("Extra"),
	)
	assert.Equal(t, "<Items><Item><sku>A1</sku><Extra><color>red</color></Extra></Item></Items>", got)
}

func TestWriter_EscapesAndSanitizesText(t *testing.T) {
	got := render(t,
		[]string{"note"},
		[][]string{{"a<b & c\x00d"}},
		WithHeader(false),
	)
	assert.Equal(t, "<Records><Record><note>a&lt;b &amp; cd</note></Record></Records>", got)

	// output stays well formed
	var doc struct {
		Records []struct {
			Note string `xml:"note"`
		} `xml:"Record"`
	}
	require.NoError(t, xml.Unmarshal([]byte(got), &doc))
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "a<b & cd", doc.Records[0].Note)
}

func TestWriter_RejectsIllegalColumnNames(t *testing.T) {
	for _, header := range [][]string{
		{"id", "first name"},
		{"1st"},
		{"CUEX_bad tag"},
		{"CUEX_"},
	} {
		_, err := NewWriter(&bytes.Buffer{}, csvsource.NewSchema(header))
		require.Error(t, err, "header %v", header)
		assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	}
}

func TestWriter_RepairsIllegalColumnNames(t *testing.T) {
	got := render(t,
		[]string{"first name", "1st", "CUEX_bad tag"},
		[][]string{{"ann", "yes", "x"}},
		WithHeader(false),
		WithTagRepair(true),
	)
	want := "<Records><Record>" +
		"<first_name>ann</first_name><_1st>yes</_1st>" +
		"<CustomerExtensions><bad_tag>x</bad_tag></CustomerExtensions>" +
		"</Record></Records>"
	assert.Equal(t, want, got)
}

func TestWriter_RejectsIllegalElementOptions(t *testing.T) {
	s := csvsource.NewSchema([]string{"id"})
	for _, opt := range []Option{WithRoot(""), WithRecord("a b"), WithExtensionsTag("x:y")} {
		_, err := NewWriter(&bytes.Buffer{}, s, opt)
		assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	}
	_, err := NewWriter(nil, s)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	_, err = NewWriter(&bytes.Buffer{}, nil)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestWriter_RejectsForeignRecordAndWriteAfterClose(t *testing.T) {
	s := csvsource.NewSchema([]string{"id"})
	w, err := NewWriter(&bytes.Buffer{}, s)
	require.NoError(t, err)

	err = w.WriteRecord(csvsource.NewRecord(csvsource.NewSchema([]string{"id"})))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	err = w.WriteRecord(csvsource.NewRecord(s))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriter_StreamFailure(t *testing.T) {
	boom := errors.New("pipe closed")
	s := csvsource.NewSchema([]string{"id"})
	w, err := NewWriter(failingWriter{err: boom}, s)
	require.NoError(t, err)

	// the declaration goes straight to the sink and fails first
	rec := csvsource.NewRecord(s)
	rec.SetValues([]string{"1"})
	err = w.WriteRecord(rec)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeStream))
	assert.ErrorIs(t, err, boom)
}

func TestWriter_FromReader(t *testing.T) {
	input := "id,name,CUEX_foo\n1,bob,\n2,,x\n"
	rd, s, err := csvsource.Open(strings.NewReader(input), ',')
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, s, WithHeader(false))
	require.NoError(t, err)
	rec := csvsource.NewRecord(s)
	for {
		ok, err := rd.Read(rec)
		require.NoError(t, err)
		if !ok {
			break
		}
		require.NoError(t, w.WriteRecord(rec))
	}
	require.NoError(t, w.Close())

	want := "<Records>" +
		"<Record><id>1</id><name>bob</name></Record>" +
		"<Record><id>2</id><CustomerExtensions><foo>x</foo></CustomerExtensions></Record>" +
		"</Records>"
	assert.Equal(t, want, buf.String())
}
