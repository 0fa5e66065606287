// Package lineage reconstruye la trazabilidad de un lote recorriendo recepciones,
// consumos de producción, órdenes, inspecciones y despachos.
package lineage

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	graph "github.com/jhoicas/erp-ledger/internal/domain/lineage"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// Pasos obligatorios del recorrido, usados en LineageNotFoundError.Step.
const (
	StepReceipts     = "receipts"
	StepConsumptions = "consumptions"
	StepTasks        = "production_tasks"
)

// DefaultMaxDepth saltos de producción que se siguen cuando no se configura otro valor.
const DefaultMaxDepth = 8

// Resolver solo lee; no toma bloqueos de stock.
type Resolver struct {
	repo     repository.LineageRepository
	maxDepth int
}

// NewResolver maxDepth <= 0 usa DefaultMaxDepth.
func NewResolver(repo repository.LineageRepository, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{repo: repo, maxDepth: maxDepth}
}

// Resolve arma el grafo del lote en la dirección pedida. Si falta un paso obligatorio
// devuelve *domain.LineageNotFoundError indicando cuál.
func (r *Resolver) Resolve(ctx context.Context, dir entity.Direction, code, batchNo string) (*entity.LineageGraph, error) {
	code = strings.TrimSpace(code)
	batchNo = strings.TrimSpace(batchNo)
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: direction debe ser forward o backward", domain.ErrInvalidInput)
	}
	if code == "" || batchNo == "" {
		return nil, fmt.Errorf("%w: code y batch_no son obligatorios", domain.ErrInvalidInput)
	}
	start := entity.BatchKey{Code: code, BatchNo: batchNo}

	w := &walk{
		dir:     dir,
		start:   start,
		batches: map[entity.BatchKey]struct{}{start: {}},
		tasks:   make(map[string]struct{}),
	}
	var err error
	if dir == entity.DirectionForward {
		err = r.forward(ctx, w)
	} else {
		err = r.backward(ctx, w)
	}
	if err != nil {
		return nil, err
	}

	nodes, edges := graph.Assemble(dir, start, w.trace)
	return &entity.LineageGraph{
		Direction: dir,
		Start:     start,
		Nodes:     nodes,
		Edges:     edges,
		Trace:     w.trace,
	}, nil
}

// walk estado de un recorrido: filas acumuladas y lo ya visitado.
type walk struct {
	dir     entity.Direction
	start   entity.BatchKey
	trace   entity.LineageTrace
	batches map[entity.BatchKey]struct{}
	tasks   map[string]struct{}
	outputs []entity.BatchKey // lotes producidos, en orden de descubrimiento
}

func (w *walk) notFound(step, reason string) error {
	return &domain.LineageNotFoundError{
		Direction: string(w.dir),
		Step:      step,
		Code:      w.start.Code,
		BatchNo:   w.start.BatchNo,
		Reason:    reason,
	}
}

// addTasks registra órdenes no vistas y devuelve sus lotes de salida no vistos.
func (w *walk) addTasks(tasks []entity.ProductionTask) []entity.BatchKey {
	var fresh []entity.BatchKey
	for _, t := range tasks {
		if _, ok := w.tasks[t.TaskNo]; ok {
			continue
		}
		w.tasks[t.TaskNo] = struct{}{}
		w.trace.Tasks = append(w.trace.Tasks, t)
		out := t.OutputKey()
		if _, ok := w.batches[out]; ok {
			continue
		}
		w.batches[out] = struct{}{}
		w.outputs = append(w.outputs, out)
		fresh = append(fresh, out)
	}
	return fresh
}

func (w *walk) taskNos() []string {
	nos := make([]string, 0, len(w.trace.Tasks))
	for _, t := range w.trace.Tasks {
		nos = append(nos, t.TaskNo)
	}
	return nos
}

func unseenTaskNos(rows []entity.ConsumptionRow, seen map[string]struct{}) []string {
	dup := make(map[string]struct{})
	var nos []string
	for _, c := range rows {
		if _, ok := seen[c.TaskNo]; ok {
			continue
		}
		if _, ok := dup[c.TaskNo]; ok {
			continue
		}
		dup[c.TaskNo] = struct{}{}
		nos = append(nos, c.TaskNo)
	}
	return nos
}

// forward recepción → consumo → orden → lote de salida → ... → inspecciones y despachos.
func (r *Resolver) forward(ctx context.Context, w *walk) error {
	start := []entity.BatchKey{w.start}
	receipts, err := r.repo.ReceiptsByBatch(ctx, start)
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepReceipts, err)
	}
	if len(receipts) == 0 {
		return w.notFound(StepReceipts, fmt.Sprintf("no hay recepciones del lote %s del material %s", w.start.BatchNo, w.start.Code))
	}
	w.trace.Receipts = receipts

	consumptions, err := r.repo.ConsumptionsByBatch(ctx, start)
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepConsumptions, err)
	}
	if len(consumptions) == 0 {
		return w.notFound(StepConsumptions, fmt.Sprintf("el lote %s del material %s no fue consumido por ninguna orden de producción", w.start.BatchNo, w.start.Code))
	}
	w.trace.Consumptions = consumptions

	tasks, err := r.repo.TasksByNo(ctx, unseenTaskNos(consumptions, w.tasks))
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepTasks, err)
	}
	if len(tasks) == 0 {
		return w.notFound(StepTasks, fmt.Sprintf("no se encontraron las órdenes de producción que consumieron el lote %s", w.start.BatchNo))
	}
	frontier := w.addTasks(tasks)

	for depth := 1; depth < r.maxDepth && len(frontier) > 0; depth++ {
		next, err := r.repo.ConsumptionsByBatch(ctx, frontier)
		if err != nil {
			return fmt.Errorf("lineage %s: %w", StepConsumptions, err)
		}
		if len(next) == 0 {
			break
		}
		w.trace.Consumptions = append(w.trace.Consumptions, next...)
		nos := unseenTaskNos(next, w.tasks)
		if len(nos) == 0 {
			break
		}
		more, err := r.repo.TasksByNo(ctx, nos)
		if err != nil {
			return fmt.Errorf("lineage %s: %w", StepTasks, err)
		}
		frontier = w.addTasks(more)
	}

	return r.leaves(ctx, w, w.outputs)
}

// backward lote terminado → órdenes que lo produjeron → consumos → lotes de entrada → ... → recepciones.
func (r *Resolver) backward(ctx context.Context, w *walk) error {
	tasks, err := r.repo.TasksByOutput(ctx, []entity.BatchKey{w.start})
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepTasks, err)
	}
	if len(tasks) == 0 {
		return w.notFound(StepTasks, fmt.Sprintf("ninguna orden de producción produjo el lote %s del producto %s", w.start.BatchNo, w.start.Code))
	}
	fresh := r.backwardTasks(w, tasks)

	consumptions, err := r.repo.ConsumptionsByTask(ctx, fresh)
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepConsumptions, err)
	}
	if len(consumptions) == 0 {
		return w.notFound(StepConsumptions, fmt.Sprintf("las órdenes que produjeron el lote %s no registran consumos de material", w.start.BatchNo))
	}
	w.trace.Consumptions = consumptions
	inputs := w.addInputs(nil, consumptions)
	frontier := inputs

	for depth := 1; depth < r.maxDepth && len(frontier) > 0; depth++ {
		upstream, err := r.repo.TasksByOutput(ctx, frontier)
		if err != nil {
			return fmt.Errorf("lineage %s: %w", StepTasks, err)
		}
		nos := r.backwardTasks(w, upstream)
		if len(nos) == 0 {
			break
		}
		more, err := r.repo.ConsumptionsByTask(ctx, nos)
		if err != nil {
			return fmt.Errorf("lineage %s: %w", StepConsumptions, err)
		}
		w.trace.Consumptions = append(w.trace.Consumptions, more...)
		before := len(inputs)
		inputs = w.addInputs(inputs, more)
		frontier = inputs[before:]
	}

	receipts, err := r.repo.ReceiptsByBatch(ctx, inputs)
	if err != nil {
		return fmt.Errorf("lineage %s: %w", StepReceipts, err)
	}
	if len(receipts) == 0 {
		return w.notFound(StepReceipts, fmt.Sprintf("ningún material consumido para el lote %s tiene recepción registrada", w.start.BatchNo))
	}
	w.trace.Receipts = receipts

	return r.leaves(ctx, w, []entity.BatchKey{w.start})
}

// backwardTasks registra órdenes no vistas (sin encolar su salida) y devuelve sus números.
func (r *Resolver) backwardTasks(w *walk, tasks []entity.ProductionTask) []string {
	var nos []string
	for _, t := range tasks {
		if _, ok := w.tasks[t.TaskNo]; ok {
			continue
		}
		w.tasks[t.TaskNo] = struct{}{}
		w.trace.Tasks = append(w.trace.Tasks, t)
		nos = append(nos, t.TaskNo)
	}
	return nos
}

// addInputs agrega a acc los lotes consumidos no vistos.
func (w *walk) addInputs(acc []entity.BatchKey, rows []entity.ConsumptionRow) []entity.BatchKey {
	for _, c := range rows {
		k := entity.BatchKey{Code: c.MaterialCode, BatchNo: c.BatchNo}
		if _, ok := w.batches[k]; ok {
			continue
		}
		w.batches[k] = struct{}{}
		acc = append(acc, k)
	}
	return acc
}

// leaves inspecciones y despachos son opcionales; se consultan en paralelo.
func (r *Resolver) leaves(ctx context.Context, w *walk, shipped []entity.BatchKey) error {
	taskNos := w.taskNos()
	g, gctx := errgroup.WithContext(ctx)
	var inspections []entity.InspectionRow
	var shipments []entity.ShipmentRow
	g.Go(func() error {
		if len(taskNos) == 0 {
			return nil
		}
		rows, err := r.repo.InspectionsByTask(gctx, taskNos)
		if err != nil {
			return fmt.Errorf("lineage inspections: %w", err)
		}
		inspections = rows
		return nil
	})
	g.Go(func() error {
		if len(shipped) == 0 {
			return nil
		}
		rows, err := r.repo.ShipmentsByBatch(gctx, shipped)
		if err != nil {
			return fmt.Errorf("lineage shipments: %w", err)
		}
		shipments = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	w.trace.Inspections = inspections
	w.trace.Shipments = shipments
	return nil
}
