package textindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Analytics</title><style>.x{}</style></head>
<body>
  <h1>  Analytics  </h1>
  <div class="card">
    <span>BTC Price</span>
    <p>$105,000
       USD</p>
  </div>
  <div></div>
  <section><h2>Holdings</h2></section>
  <script>var hidden = "1234";</script>
  <div style="display: none"><span>secret</span></div>
  <p hidden>gone</p>
  <span>a<br>b</span>
  <ul><li>not collected</li></ul>
</body>
</html>`

func TestBuild(t *testing.T) {
	idx, err := Build(page)
	require.NoError(t, err)

	assert.Equal(t, Index{
		"Analytics",
		"BTC Price\n$105,000 USD",
		"BTC Price",
		"$105,000 USD",
		"Holdings",
		"a\nb",
	}, idx)
}

func TestBuild_StackedValueKeepsFirstLine(t *testing.T) {
	idx, err := Build(`<div><span>1234</span><div>USD</div></div>`)
	require.NoError(t, err)

	require.NotEmpty(t, idx)
	assert.Equal(t, "1234\nUSD", idx[0])
}

func TestBuild_Empty(t *testing.T) {
	idx, err := Build("")
	require.NoError(t, err)
	assert.Empty(t, idx)
}

func TestIndex_Range(t *testing.T) {
	idx := Index{"a", "b", "c", "d"}

	assert.Equal(t, []Entry{{2, "b"}, {3, "c"}}, idx.Range(2, 3))
	assert.Equal(t, []Entry{{1, "a"}, {2, "b"}}, idx.Range(-3, 2))
	assert.Equal(t, []Entry{{4, "d"}}, idx.Range(4, 110))
	assert.Empty(t, idx.Range(70, 110))
}
