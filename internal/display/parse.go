package display

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type parser interface {
	primary() (string, bool)
	resolution() (int, int, bool)
	currentRate() (int, bool)
	rates(res string) []int
}

var (
	resolutionRe  = regexp.MustCompile(`(\d+)x(\d+)`)
	x11RateRe     = regexp.MustCompile(`(\d+\.\d+)\*`)
	hzRe          = regexp.MustCompile(`(\d+\.?\d*)\s*Hz`)
	kscreenOutRe  = regexp.MustCompile(`Output:\s+(\d+)\s+(\S+)`)
	kscreenModeRe = regexp.MustCompile(`(\d+)x(\d+)@(\d+(?:\.\d+)?)(\*?)`)
)

func lines(out string) []string {
	return strings.Split(out, "\n")
}

func parseResolution(re *regexp.Regexp, line string) (int, int, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, true
}

func roundRate(s string) (int, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(math.Round(f)), true
}

func sortedUnique(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// x11Parser reads `xrandr --query`.
type x11Parser struct{ out string }

func (p x11Parser) primary() (string, bool) {
	for _, line := range lines(p.out) {
		if strings.Contains(line, " connected primary") {
			return strings.Fields(line)[0], true
		}
	}
	for _, line := range lines(p.out) {
		if strings.Contains(line, " connected") && !strings.Contains(line, "disconnected") {
			return strings.Fields(line)[0], true
		}
	}
	return "", false
}

func (p x11Parser) resolution() (int, int, bool) {
	for _, line := range lines(p.out) {
		if strings.Contains(line, "*") {
			if w, h, ok := parseResolution(resolutionRe, line); ok {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}

func (p x11Parser) currentRate() (int, bool) {
	for _, line := range lines(p.out) {
		if m := x11RateRe.FindStringSubmatch(line); m != nil {
			return roundRate(m[1])
		}
	}
	return 0, false
}

func (p x11Parser) rates(res string) []int {
	set := make(map[int]struct{})
	for _, line := range lines(p.out) {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != res {
			continue
		}
		for _, f := range fields[1:] {
			clean := strings.NewReplacer("*", "", "+", "").Replace(f)
			if r, ok := roundRate(clean); ok {
				set[r] = struct{}{}
			}
		}
	}
	return sortedUnique(set)
}

// wlrParser reads plain `wlr-randr` output.
type wlrParser struct{ out string }

func (p wlrParser) primary() (string, bool) {
	for _, line := range lines(p.out) {
		if line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			return strings.Fields(line)[0], true
		}
	}
	return "", false
}

func (p wlrParser) currentLine() (string, bool) {
	for _, line := range lines(p.out) {
		if strings.Contains(strings.ToLower(line), "current") && hzRe.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

func (p wlrParser) resolution() (int, int, bool) {
	line, ok := p.currentLine()
	if !ok {
		return 0, 0, false
	}
	return parseResolution(resolutionRe, line)
}

func (p wlrParser) currentRate() (int, bool) {
	line, ok := p.currentLine()
	if !ok {
		return 0, false
	}
	return roundRate(hzRe.FindStringSubmatch(line)[1])
}

func (p wlrParser) rates(res string) []int {
	set := make(map[int]struct{})
	for _, line := range lines(p.out) {
		if !strings.Contains(line, res) {
			continue
		}
		if m := hzRe.FindStringSubmatch(line); m != nil {
			if r, ok := roundRate(m[1]); ok {
				set[r] = struct{}{}
			}
		}
	}
	return sortedUnique(set)
}

// kscreenParser reads `kscreen-doctor -o`. The active mode carries a "*".
type kscreenParser struct{ out string }

func (p kscreenParser) primary() (string, bool) {
	for _, line := range lines(p.out) {
		if m := kscreenOutRe.FindStringSubmatch(line); m != nil {
			return m[2], true
		}
	}
	return "", false
}

// current returns the starred mode, else the first mode listed.
func (p kscreenParser) current() ([]string, bool) {
	var first []string
	for _, line := range lines(p.out) {
		for _, m := range kscreenModeRe.FindAllStringSubmatch(line, -1) {
			if m[4] != "" {
				return m, true
			}
			if first == nil {
				first = m
			}
		}
	}
	return first, first != nil
}

func (p kscreenParser) resolution() (int, int, bool) {
	m, ok := p.current()
	if !ok {
		return 0, 0, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, true
}

func (p kscreenParser) currentRate() (int, bool) {
	m, ok := p.current()
	if !ok {
		return 0, false
	}
	return roundRate(m[3])
}

func (p kscreenParser) rates(res string) []int {
	set := make(map[int]struct{})
	for _, line := range lines(p.out) {
		for _, m := range kscreenModeRe.FindAllStringSubmatch(line, -1) {
			if m[1]+"x"+m[2] != res {
				continue
			}
			if r, ok := roundRate(m[3]); ok {
				set[r] = struct{}{}
			}
		}
	}
	return sortedUnique(set)
}
