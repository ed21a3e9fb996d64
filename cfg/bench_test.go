package cfg

import (
	"context"
	"testing"
)

const benchSource = `
disableLinks = false;
outputFormat = {
  type: OutputType.PDF,
  width: 640,
  height: 480,
};
userStyleSheets = ('first.css', 'second.css');
debugSettings.appendLogs = on;
colorSpaceSettings.targetColorSpace = ColorSpace.CMYK;
`

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ClearCache()

		if _, err := Parse(context.Background(), WithText(benchSource)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseCached(b *testing.B) {
	// Pre-populate the statement cache so every iteration replays it.
	ClearCache()

	if _, err := Parse(context.Background(), WithText(benchSource)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(context.Background(), WithText(benchSource)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStatements(b *testing.B) {
	for i := 0; i < b.N; i++ {
		for _, err := range Statements(Groups(benchSource), false) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
