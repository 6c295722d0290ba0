// Package units converts between byte counts and human-readable size strings.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel is what HumanizeMemory returns when a size cannot be rendered.
const Sentinel = "-"

var binaryUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

// multipliers maps a lower-cased unit suffix to its scale factor. Slurm reports sizes with a
// single-letter suffix ("512000K") that it defines as a power of 1024, so those share the binary
// family.
var multipliers = map[string]float64{
	"":  1,
	"b": 1,

	"k":   1 << 10,
	"m":   1 << 20,
	"g":   1 << 30,
	"t":   1 << 40,
	"p":   1 << 50,
	"e":   1 << 60,
	"z":   1 << 70,
	"y":   1 << 80,
	"kib": 1 << 10,
	"mib": 1 << 20,
	"gib": 1 << 30,
	"tib": 1 << 40,
	"pib": 1 << 50,
	"eib": 1 << 60,
	"zib": 1 << 70,
	"yib": 1 << 80,

	"kb": 1e3,
	"mb": 1e6,
	"gb": 1e9,
	"tb": 1e12,
	"pb": 1e15,
	"eb": 1e18,
	"zb": 1e21,
	"yb": 1e24,
}

var sizeRe = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*([A-Za-z]*)$`)

// ParseError reports a size string that could not be converted.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse size %q: %s", e.Input, e.Reason)
}

// BytesToHuman renders n in base-1024 units, using the largest unit whose scaled value is at
// least 1 and rounding to two decimal places. Zero is "0B".
func BytesToHuman(n uint64) string {
	if n == 0 {
		return "0B"
	}
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(binaryUnits)-1 {
		value /= 1024
		unit++
	}
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + binaryUnits[unit]
}

// HumanToBytes parses a size such as "512000K", "1.5GiB" or "20MB". Binary suffixes scale by
// 1024, decimal suffixes by 1000; a bare number is bytes. Matching is case-insensitive.
func HumanToBytes(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	m := sizeRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, &ParseError{Input: s, Reason: "expected a number followed by a unit"}
	}

	mult, ok := multipliers[strings.ToLower(m[2])]
	if !ok {
		return 0, &ParseError{Input: s, Reason: fmt.Sprintf("unknown unit %q", m[2])}
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: err.Error()}
	}

	bytes := math.Round(value * mult)
	if bytes >= math.MaxUint64 {
		return 0, &ParseError{Input: s, Reason: "value out of range"}
	}
	return uint64(bytes), nil
}

// HumanizeMemory normalizes a backend memory figure into BytesToHuman form. Anything that does
// not parse becomes the sentinel; a bad size never fails the record it belongs to.
func HumanizeMemory(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return Sentinel
	}
	n, err := HumanToBytes(raw)
	if err != nil {
		return Sentinel
	}
	return BytesToHuman(n)
}
