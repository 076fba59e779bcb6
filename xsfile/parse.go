// SPDX-License-Identifier: MIT

package xsfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
)

// maxLineLength bounds a single line of the text format.
const maxLineLength = 1 << 20

const (
	kwGroups     = "NUM_GROUPS"
	kwMoments    = "NUM_MOMENTS"
	kwPrecursors = "NUM_PRECURSORS"
	kwScaled     = "FISSION_SCALED"

	suffixBegin = "_BEGIN"
	suffixEnd   = "_END"

	prefixTransfer   = "M_GPRIME_G_VAL"
	prefixProduction = "G_GPRIME_VAL"
	prefixDelayed    = "G_PRECURSOR_VAL"
)

// blockKind selects how the lines of a block are read.
type blockKind int

const (
	perGroup blockKind = iota
	perPrecursor
	transferBlock
	productionBlock
	delayedBlock
	binsBlock
)

// blockSpec describes one recognized data block.
type blockSpec struct {
	kind blockKind
	ok   func(float64) bool // value check for vector blocks
	want string             // human-readable form of ok
	dst  func(p *parser) *[]float64
}

var (
	nonNegative = func(x float64) bool { return x >= 0 }
	yieldValue  = func(x float64) bool { return x == 0 || x > 1 }
	unitValue   = func(x float64) bool { return x >= 0 && x <= 1 }
	positive    = func(x float64) bool { return x > 0 }
)

// scaledYields are the blocks whose lower bound is dropped once
// FISSION_SCALED 1 is declared: a yield divided by k_eff may fall to 1 or
// below.
var scaledYields = map[string]bool{"NU": true, "NU_PROMPT": true}

func field(f func(in *xs.Input) *[]float64) func(p *parser) *[]float64 {
	return func(p *parser) *[]float64 { return f(&p.in) }
}

// blocks maps a block name (without _BEGIN/_END) to its description.
var blocks = map[string]blockSpec{
	"SIGMA_T":      {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.SigmaT })},
	"SIGMA_A":      {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.SigmaA })},
	"SIGMA_F":      {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.SigmaF })},
	"NU_SIGMA_F":   {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.NuSigmaF })},
	"NU":           {perGroup, yieldValue, "0 or > 1", field(func(in *xs.Input) *[]float64 { return &in.Nu })},
	"NU_PROMPT":    {perGroup, yieldValue, "0 or > 1", field(func(in *xs.Input) *[]float64 { return &in.NuPrompt })},
	"NU_DELAYED":   {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.NuDelayed })},
	"BETA":         {perGroup, unitValue, "in [0,1]", field(func(in *xs.Input) *[]float64 { return &in.Beta })},
	"CHI":          {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.Chi })},
	"CHI_PROMPT":   {perGroup, nonNegative, ">= 0", field(func(in *xs.Input) *[]float64 { return &in.ChiPrompt })},
	"INV_VELOCITY": {perGroup, positive, "> 0", field(func(in *xs.Input) *[]float64 { return &in.InvVelocity })},
	"VELOCITY":     {perGroup, positive, "> 0", func(p *parser) *[]float64 { return &p.velocity }},

	"PRECURSOR_DECAY_CONSTANTS":   {perPrecursor, positive, "> 0", field(func(in *xs.Input) *[]float64 { return &in.DecayConstants })},
	"PRECURSOR_FRACTIONAL_YIELDS": {perPrecursor, unitValue, "in [0,1]", field(func(in *xs.Input) *[]float64 { return &in.FractionalYields })},

	"TRANSFER_MOMENTS":  {kind: transferBlock},
	"PRODUCTION_MATRIX": {kind: productionBlock},
	"CHI_DELAYED":       {kind: delayedBlock},
	"GROUP_STRUCTURE":   {kind: binsBlock},
}

// openBlock is the block currently being read.
type openBlock struct {
	name   string
	spec   blockSpec
	start  int
	values []float64
	bins   []xs.EnergyBin
	filled []bool
	count  int
}

// parser holds the state of one Parse call.
type parser struct {
	path   string
	logger *slog.Logger
	line   int

	in                                             xs.Input
	velocity                                       []float64
	hasGroups, hasMoments, hasPrecursor, hasScaled bool
	seen                                map[string]bool
	open                                *openBlock
}

// Parse reads the text format from r. path labels errors; it need not name
// a real file.
//
// Errors: *xs.FormatError (errors.Is xs.ErrFormat) with the offending line.
func Parse(r io.Reader, path string, opts ...Option) (xs.Input, error) {
	o := gatherOptions(opts...)
	p := &parser{path: path, logger: o.logger, seen: make(map[string]bool)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		p.line++
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		var err error
		if p.open != nil {
			err = p.entry(tokens)
		} else {
			err = p.statement(tokens)
		}
		if err != nil {
			return xs.Input{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return xs.Input{}, p.errorf(p.line, "read: %v", err)
	}

	return p.finish()
}

// ReadFile parses the file at path and finalizes it with xs.New.
func ReadFile(path string, opts ...Option) (*xs.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xsfile: %w", err)
	}
	defer f.Close()

	in, err := Parse(f, path, opts...)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)
	rec, err := xs.New(in, o.recordOps...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rec, nil
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &xs.FormatError{Path: p.path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// statement handles a line outside any block.
func (p *parser) statement(tokens []string) error {
	kw := tokens[0]
	switch kw {
	case kwGroups:
		n, err := p.directive(tokens, &p.hasGroups)
		if err != nil {
			return err
		}
		if n <= 0 {
			return p.errorf(p.line, "%s must be > 0, got %d", kw, n)
		}
		p.in.NumGroups = n
	case kwMoments:
		m, err := p.directive(tokens, &p.hasMoments)
		if err != nil {
			return err
		}
		if m < 0 {
			return p.errorf(p.line, "%s must be >= 0, got %d", kw, m)
		}
		p.in.ScatteringOrder = max(0, m-1)
	case kwPrecursors:
		j, err := p.directive(tokens, &p.hasPrecursor)
		if err != nil {
			return err
		}
		if j < 0 {
			return p.errorf(p.line, "%s must be >= 0, got %d", kw, j)
		}
		p.in.NumPrecursors = j
	case kwScaled:
		s, err := p.directive(tokens, &p.hasScaled)
		if err != nil {
			return err
		}
		if s != 0 && s != 1 {
			return p.errorf(p.line, "%s must be 0 or 1, got %d", kw, s)
		}
		if s == 1 && len(p.seen) > 0 {
			return p.errorf(p.line, "%s 1 must precede every data block", kw)
		}
		p.in.FissionScaled = s == 1
	default:
		if name, ok := strings.CutSuffix(kw, suffixBegin); ok {
			if spec, known := blocks[name]; known {
				return p.begin(name, spec)
			}
		}
		if name, ok := strings.CutSuffix(kw, suffixEnd); ok {
			if _, known := blocks[name]; known {
				return p.errorf(p.line, "%s without %s%s", kw, name, suffixBegin)
			}
		}
		// Anything else is a comment.
	}

	return nil
}

// directive reads the integer argument of a scalar directive once.
func (p *parser) directive(tokens []string, declared *bool) (int, error) {
	if len(tokens) != 2 {
		return 0, p.errorf(p.line, "%s takes exactly one integer", tokens[0])
	}
	if *declared {
		return 0, p.errorf(p.line, "%s declared twice", tokens[0])
	}
	n, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, p.errorf(p.line, "%s: %q is not an integer", tokens[0], tokens[1])
	}
	*declared = true

	return n, nil
}

// begin opens a block after checking that its dimensions are declared.
func (p *parser) begin(name string, spec blockSpec) error {
	if p.seen[name] {
		return p.errorf(p.line, "block %s given twice", name)
	}
	if !p.hasGroups {
		return p.errorf(p.line, "block %s before %s", name, kwGroups)
	}
	switch spec.kind {
	case transferBlock:
		if !p.hasMoments {
			return p.errorf(p.line, "block %s before %s", name, kwMoments)
		}
	case perPrecursor, delayedBlock:
		if !p.hasPrecursor {
			return p.errorf(p.line, "block %s before %s", name, kwPrecursors)
		}
	}
	p.seen[name] = true
	if p.in.FissionScaled && scaledYields[name] {
		spec.ok, spec.want = nonNegative, ">= 0"
	}

	G, J := p.in.NumGroups, p.in.NumPrecursors
	b := &openBlock{name: name, spec: spec, start: p.line}
	switch spec.kind {
	case perGroup:
		b.values, b.filled = make([]float64, G), make([]bool, G)
	case perPrecursor:
		b.values, b.filled = make([]float64, J), make([]bool, J)
	case binsBlock:
		b.bins, b.filled = make([]xs.EnergyBin, G), make([]bool, G)
	case transferBlock:
		p.in.Transfer = make([]*matrix.Sparse, p.in.ScatteringOrder+1)
		for ell := range p.in.Transfer {
			p.in.Transfer[ell], _ = matrix.NewSparse(G)
		}
	case productionBlock:
		p.in.Production = make([][]float64, G)
		for g := range p.in.Production {
			p.in.Production[g] = make([]float64, G)
		}
	case delayedBlock:
		p.in.ChiDelayed = make([][]float64, J)
		for j := range p.in.ChiDelayed {
			p.in.ChiDelayed[j] = make([]float64, G)
		}
	}
	p.open = b

	return nil
}

// entry handles a line inside the open block.
func (p *parser) entry(tokens []string) error {
	b := p.open
	if tokens[0] == b.name+suffixEnd {
		return p.end()
	}
	if other, ok := strings.CutSuffix(tokens[0], suffixBegin); ok {
		if _, known := blocks[other]; known {
			return p.errorf(p.line, "block %s opened before %s%s", other, b.name, suffixEnd)
		}
	}

	G, J := p.in.NumGroups, p.in.NumPrecursors
	switch b.spec.kind {
	case perGroup, perPrecursor:
		if len(tokens) != 2 {
			return p.errorf(p.line, "%s: expected \"index value\", got %d tokens", b.name, len(tokens))
		}
		i, err := p.index(tokens[0], len(b.values), "index")
		if err != nil {
			return err
		}
		v, err := p.value(tokens[1])
		if err != nil {
			return err
		}
		if !b.spec.ok(v) {
			return p.errorf(p.line, "%s[%d] = %g, must be %s", b.name, i, v, b.spec.want)
		}
		return p.fill(i, func() { b.values[i] = v })

	case binsBlock:
		if len(tokens) != 3 {
			return p.errorf(p.line, "%s: expected \"group high low\", got %d tokens", b.name, len(tokens))
		}
		g, err := p.index(tokens[0], G, "group")
		if err != nil {
			return err
		}
		vs, err := p.values(tokens[1:])
		if err != nil {
			return err
		}
		if vs[1] < 0 || vs[0] <= vs[1] {
			return p.errorf(p.line, "%s[%d]: bounds %g > %g >= 0 required", b.name, g, vs[0], vs[1])
		}
		return p.fill(g, func() { b.bins[g] = xs.EnergyBin{High: vs[0], Low: vs[1]} })

	case transferBlock:
		if tokens[0] != prefixTransfer {
			return nil
		}
		if len(tokens) != 5 {
			return p.errorf(p.line, "%s: expected \"%s moment gprime g value\"", b.name, prefixTransfer)
		}
		ell, err := p.index(tokens[1], p.in.ScatteringOrder+1, "moment")
		if err != nil {
			return err
		}
		gp, err := p.index(tokens[2], G, "source group")
		if err != nil {
			return err
		}
		g, err := p.index(tokens[3], G, "destination group")
		if err != nil {
			return err
		}
		v, err := p.value(tokens[4])
		if err != nil {
			return err
		}
		if ell == 0 && v < 0 {
			return p.errorf(p.line, "%s: isotropic transfer %d->%d is %g, must be >= 0", b.name, gp, g, v)
		}
		_ = p.in.Transfer[ell].Insert(g, gp, v)

	case productionBlock:
		if tokens[0] != prefixProduction {
			return nil
		}
		if len(tokens) != 4 {
			return p.errorf(p.line, "%s: expected \"%s g gprime value\"", b.name, prefixProduction)
		}
		g, err := p.index(tokens[1], G, "group")
		if err != nil {
			return err
		}
		gp, err := p.index(tokens[2], G, "source group")
		if err != nil {
			return err
		}
		v, err := p.value(tokens[3])
		if err != nil {
			return err
		}
		if v < 0 {
			return p.errorf(p.line, "%s[%d][%d] = %g, must be >= 0", b.name, g, gp, v)
		}
		p.in.Production[g][gp] = v

	case delayedBlock:
		if tokens[0] != prefixDelayed {
			return nil
		}
		if len(tokens) != 4 {
			return p.errorf(p.line, "%s: expected \"%s g precursor value\"", b.name, prefixDelayed)
		}
		g, err := p.index(tokens[1], G, "group")
		if err != nil {
			return err
		}
		j, err := p.index(tokens[2], J, "precursor")
		if err != nil {
			return err
		}
		v, err := p.value(tokens[3])
		if err != nil {
			return err
		}
		if v < 0 {
			return p.errorf(p.line, "%s[%d][%d] = %g, must be >= 0", b.name, j, g, v)
		}
		p.in.ChiDelayed[j][g] = v
	}

	return nil
}

// fill records index i of a vector block, rejecting duplicates.
func (p *parser) fill(i int, set func()) error {
	b := p.open
	if b.filled[i] {
		return p.errorf(p.line, "%s: index %d given twice", b.name, i)
	}
	b.filled[i] = true
	b.count++
	set()

	return nil
}

// end closes the open block, checking entry counts of vector blocks.
func (p *parser) end() error {
	b := p.open
	p.open = nil
	switch b.spec.kind {
	case perGroup, perPrecursor:
		if b.count != len(b.values) {
			return p.errorf(p.line, "block %s has %d entries, want %d", b.name, b.count, len(b.values))
		}
		*b.spec.dst(p) = b.values
	case binsBlock:
		if b.count != len(b.bins) {
			return p.errorf(p.line, "block %s has %d entries, want %d", b.name, b.count, len(b.bins))
		}
		p.in.GroupStructure = b.bins
	}

	return nil
}

// finish runs the end-of-file checks and resolves velocities.
func (p *parser) finish() (xs.Input, error) {
	if p.open != nil {
		return xs.Input{}, p.errorf(p.open.start, "block %s not terminated by %s%s", p.open.name, p.open.name, suffixEnd)
	}
	if !p.hasGroups {
		return xs.Input{}, p.errorf(0, "%s not declared", kwGroups)
	}
	if p.velocity != nil {
		if p.in.InvVelocity != nil {
			p.logger.Warn("xsfile: VELOCITY ignored, INV_VELOCITY given", "path", p.path)
		} else {
			p.in.InvVelocity = make([]float64, len(p.velocity))
			for g, v := range p.velocity {
				p.in.InvVelocity[g] = 1 / v
			}
		}
	}

	return p.in, nil
}

// index parses an integer in [0, n).
func (p *parser) index(tok string, n int, what string) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errorf(p.line, "%s %q is not an integer", what, tok)
	}
	if i < 0 || i >= n {
		return 0, p.errorf(p.line, "%s %d out of range [0,%d)", what, i, n)
	}

	return i, nil
}

// value parses a finite float.
func (p *parser) value(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.errorf(p.line, "value %q is not a finite number", tok)
	}

	return v, nil
}

func (p *parser) values(tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	var err error
	for i, tok := range tokens {
		if out[i], err = p.value(tok); err != nil {
			return nil, err
		}
	}

	return out, nil
}
