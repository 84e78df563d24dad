package protocell

// Census summarizes the world after a tick.
type Census struct {
	Tick              uint64  `json:"tick"`
	Time              float64 `json:"time"`
	Population        int     `json:"population"`
	Births            int     `json:"births"`
	Deaths            int     `json:"deaths"`
	Lineages          int     `json:"lineages"`
	DominantLineage   uint64  `json:"dominant_lineage"`
	MeanEnergy        float64 `json:"mean_energy"`
	MeanEnzymes       float64 `json:"mean_enzymes"`
	FreeMolecules     int     `json:"free_molecules"`
	InternalMolecules int     `json:"internal_molecules"`
	MeanTemperature   float64 `json:"mean_temperature"`
	MeanSolute        float64 `json:"mean_solute"`
}

// Census gathers population and field statistics. Births and deaths are
// cumulative since the world was built.
func (w *World) Census(now float64) Census {
	c := Census{Tick: w.tick, Time: now, Births: w.births, Deaths: w.deaths}
	lineages := make(map[uint64]int)
	var energy, enzymes, temp, sol float64
	for _, t := range w.tiles {
		c.FreeMolecules += len(t.Molecules)
		temp += t.Temperature
		sol += t.Solute
		for _, cell := range t.Cells {
			if !cell.Alive() {
				continue
			}
			c.Population++
			c.InternalMolecules += len(cell.molecules)
			energy += cell.energy
			enzymes += float64(len(cell.genome.Enzymes))
			lineages[cell.lineage]++
		}
	}
	if n := float64(len(w.tiles)); n > 0 {
		c.MeanTemperature = temp / n
		c.MeanSolute = sol / n
	}
	if c.Population > 0 {
		c.MeanEnergy = energy / float64(c.Population)
		c.MeanEnzymes = enzymes / float64(c.Population)
	}
	c.Lineages = len(lineages)
	best := 0
	for id, n := range lineages {
		if n > best || (n == best && id < c.DominantLineage) {
			best, c.DominantLineage = n, id
		}
	}
	return c
}
