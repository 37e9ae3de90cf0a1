package neat

// Innovation hands out innovation numbers. One registry is shared by every
// genome of a run so that genes copied between genomes keep the number of the
// mutation that created them.
type Innovation struct {
	last int
}

// NewInnovation returns a registry whose first issued number is start+1.
func NewInnovation(start int) *Innovation {
	return &Innovation{last: start}
}

// Next issues a new innovation number.
func (in *Innovation) Next() int {
	in.last++
	return in.last
}

// Current returns the last issued innovation number.
func (in *Innovation) Current() int {
	return in.last
}
