package main

import (
	"github.com/docker/go-units"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups digits in %d verbs ("1,234,567").
var printer = message.NewPrinter(language.English)

func formatBytes(n int64) string {
	return units.BytesSize(float64(n))
}

func formatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}
