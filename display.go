package fastsum

import (
	"fmt"
	"io"
)

// writeDisplay dumps the plan parameters and state to w.
func writeDisplay(w io.Writer, p *Plan) error {
	o := p.opts

	_, err := fmt.Fprintf(w, "Plan %d\n"+
		"      gen: %d\n"+
		"        d: %d\n"+
		"  N_total: %d\n"+
		"  M_total: %d\n"+
		"        n: %d\n"+
		"        m: %d\n"+
		"        p: %d\n"+
		"    eps_I: %f\n"+
		"    eps_B: %f\n"+
		"   kernel: %s\n"+
		"    param: %f\n"+
		"    state: %s\n",
		p.handle, p.gen, o.D, o.N, o.M,
		o.Bandwidth, o.Cutoff, o.Smoothness,
		o.EpsI, o.EpsB, o.Kernel, o.KernelParam, p.state)

	return err
}
