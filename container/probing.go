package container

// Probing configures the slot sequence visited for a hash. Each round
// visits LinearSteps consecutive slots before the hash is perturbed
// (perturb >>= 5; hash = 5*hash + 1 + perturb). With PreShuffle the first
// round already uses a perturbed hash.
type Probing struct {
	LinearSteps int
	PreShuffle  bool
}

// DefaultProbing probes one slot per round without pre-shuffling.
var DefaultProbing = Probing{LinearSteps: 1}

type prober struct {
	hash    uint64
	perturb uint64
	steps   uint64
	offset  uint64
}

func (p Probing) start(hash uint64) prober {
	pr := prober{hash: hash, perturb: hash, steps: uint64(max(p.LinearSteps, 1))}
	if p.PreShuffle {
		pr.next()
	}
	return pr
}

func (pr *prober) next() {
	pr.perturb >>= 5
	pr.hash = 5*pr.hash + 1 + pr.perturb
}

// slot returns the current slot index and advances. The sequence never ends.
func (pr *prober) slot(mask uint64) int {
	i := int((pr.hash + pr.offset) & mask)
	pr.offset++
	if pr.offset == pr.steps {
		pr.offset = 0
		pr.next()
	}
	return i
}
