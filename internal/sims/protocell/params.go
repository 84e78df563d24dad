package protocell

import "protocell/internal/core"

func (s *Simulation) Parameters() core.ParameterSnapshot {
	cfg := s.cfg
	p := cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", cfg.Width),
				core.IntParam("h", "Height", cfg.Height),
				core.Int64Param("seed", "Seed", cfg.Seed),
				core.FloatParam("dt", "Tick length (ms)", cfg.DT),
			},
		},
		{
			Name: "Diffusion",
			Params: []core.Parameter{
				core.FloatParam("hop_cap", "Molecule hop cap", p.HopCap),
				core.FloatParam("hop_base", "Molecule hop base", p.HopBase),
				core.FloatParam("hop_scale", "Molecule hop scale", p.HopScale),
				core.FloatParam("field_alpha", "Field blend", p.FieldAlpha),
				core.FloatParam("initial_temp", "Initial temperature", p.InitialTemp),
				core.FloatParam("initial_solute", "Initial solute", p.InitialSolute),
				core.FloatParam("field_jitter", "Initial field jitter", p.FieldJitter),
			},
		},
		{
			Name: "Cells",
			Params: []core.Parameter{
				core.FloatParam("heat_spread", "Heat spread", p.HeatSpread),
				core.FloatParam("solute_nudge", "Secretion solute nudge", p.SoluteNudge),
				core.FloatParam("stress_power", "Thermal stress exponent", p.StressPower),
				core.IntParam("divide_radius", "Division search radius", p.DivideRadius),
				core.FloatParam("energy_share_jitter", "Energy share jitter", p.EnergyShareJitter),
			},
		},
		{
			Name: "Spawning",
			Params: []core.Parameter{
				core.IntParam("initial_cells", "Initial cells", cfg.Spawn.InitialCells),
				core.FloatParam("spawn_chance", "Spawn chance", cfg.Spawn.Chance),
				core.IntParam("capacity", "Carrying capacity", cfg.Spawn.Capacity),
				core.FloatParam("mutation_rate", "Founder mutation rate", cfg.Genomes.MutationRate),
				core.FloatParam("maintenance", "Maintenance per second", cfg.Genomes.MaintenanceCostPerSec),
				core.FloatParam("temp_stress", "Thermal stress factor", cfg.Genomes.TempStressFactor),
			},
		},
	}}
}
