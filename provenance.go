package optkit

// Provenance lists where each option's value came from.
type Provenance struct {
	Options []OptionProvenance
}

// OptionProvenance describes the origin of one option's value.
type OptionProvenance struct {
	Key        string // Primary key (e.g., "-p")
	Alias      string // Alias, if declared (e.g., "--port")
	SourceName string // "args", "prompt", "env:APP_PORT", "file:config.yaml", "default"
	Secret     bool   // Whether the option is secret
}

// Provenance reports the origin of every option that has a value, in
// registration order. Like every query it parses first.
func (c *Cli) Provenance() *Provenance {
	c.ensureParsed()

	prov := &Provenance{}
	for _, o := range c.reg.ordered() {
		src := o.Source()
		if src == "" {
			continue
		}
		prov.Options = append(prov.Options, OptionProvenance{
			Key:        o.key,
			Alias:      o.alias,
			SourceName: src,
			Secret:     o.secret,
		})
	}
	return prov
}

// Lookup returns the provenance entry for key (primary key or alias).
func (p *Provenance) Lookup(key string) (OptionProvenance, bool) {
	for _, op := range p.Options {
		if op.Key == key || (op.Alias != "" && op.Alias == key) {
			return op, true
		}
	}
	return OptionProvenance{}, false
}
