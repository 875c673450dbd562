package goquery_test

import (
	"testing"
	"time"

	"github.com/askcuny/askcuny"
	askgoquery "github.com/askcuny/askcuny/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	html := `<html>
<head><title>  Transfer Credits  |  CUNY </title></head>
<body>
<nav><a href="/">Home</a> navigation that must never appear in sections</nav>
<h1>Transfer Credit Policy</h1>
<p>Students may transfer up to 70 credits from an accredited community college
toward a bachelor's degree at a CUNY senior college.</p>
<ul>
  <li>Official transcripts are required for all transfer evaluations.</li>
</ul>
<script>console.log("tracking code that must never appear");</script>
<footer>Copyright notice that must never appear in sections</footer>
</body>
</html>`

	fixed := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	e := askgoquery.NewExtractor(askgoquery.WithClock(func() time.Time { return fixed }))

	snap, err := e.Extract("https://www.cuny.edu/transfer/", html)
	require.NoError(t, err)

	assert.Equal(t, "https://www.cuny.edu/transfer/", snap.URL)
	assert.Equal(t, "Transfer Credits | CUNY", snap.Title)
	assert.Equal(t, fixed, snap.FetchedAt)

	require.Len(t, snap.Sections, 3)
	assert.Equal(t, askcuny.KindH1, snap.Sections[0].Kind)
	assert.Equal(t, "Transfer Credit Policy", snap.Sections[0].Text)
	assert.Equal(t, askcuny.KindParagraph, snap.Sections[1].Kind)
	assert.Contains(t, snap.Sections[1].Text, "70 credits")
	assert.Equal(t, askcuny.KindListItem, snap.Sections[2].Kind)

	for _, s := range snap.Sections {
		assert.NotContains(t, s.Text, "must never appear")
		assert.NotContains(t, s.Text, "tracking code")
	}
}

func TestExtractor_SkipsShortAndDuplicateSections(t *testing.T) {
	t.Parallel()

	html := `<body>
<p>Apply now</p>
<p>Tuition for in-state undergraduate students is $3465 per semester.</p>
<p>Tuition for in-state undergraduate students is $3465 per semester.</p>
</body>`

	e := askgoquery.NewExtractor()

	snap, err := e.Extract("https://www.cuny.edu/tuition/", html)
	require.NoError(t, err)

	require.Len(t, snap.Sections, 1)
	assert.Contains(t, snap.Sections[0].Text, "$3465")
}

func TestExtractor_KeepsOnlyLeafDivs(t *testing.T) {
	t.Parallel()

	html := `<body>
<div>
  <p>The nursing program at Hunter College admits students each fall semester.</p>
</div>
<div>Standalone block of text about SAT requirements for freshman admission.</div>
</body>`

	e := askgoquery.NewExtractor()

	snap, err := e.Extract("https://www.hunter.cuny.edu/nursing/", html)
	require.NoError(t, err)

	require.Len(t, snap.Sections, 2)
	assert.Equal(t, askcuny.KindParagraph, snap.Sections[0].Kind)
	assert.Equal(t, askcuny.KindBlock, snap.Sections[1].Kind)
	assert.Contains(t, snap.Sections[1].Text, "SAT requirements")
}

func TestExtractor_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	html := "<body><p>Credits\n\n\ttransfer   between    CUNY\n colleges seamlessly.</p></body>"

	e := askgoquery.NewExtractor()

	snap, err := e.Extract("https://www.cuny.edu/", html)
	require.NoError(t, err)

	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "Credits transfer between CUNY colleges seamlessly.", snap.Sections[0].Text)
}
