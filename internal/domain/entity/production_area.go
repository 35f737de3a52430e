package entity

// ProductionArea área del catálogo de producción (Corte, Confección, Calidad...).
// Order define la secuencia total; el catálogo se configura fuera de este servicio.
type ProductionArea struct {
	ID    int64
	Name  string
	Order int
}
