// Package lineage ensamblado puro del grafo de trazabilidad a partir de las filas
// crudas del recorrido: deduplicación de nodos por "tipo:identificador" y una
// arista por adyacencia. No hace E/S; el acceso a datos vive en el resolver.
package lineage

import (
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// Identificadores estables de nodo.
func BatchNodeID(k entity.BatchKey) string {
	return string(entity.NodeMaterialBatch) + ":" + k.Code + "/" + k.BatchNo
}

func ReceiptNodeID(r entity.ReceiptRow) string {
	return string(entity.NodeReceipt) + ":" + r.TransactionNo
}

func TaskNodeID(taskNo string) string {
	return string(entity.NodeProductionTask) + ":" + taskNo
}

func InspectionNodeID(i entity.InspectionRow) string {
	return string(entity.NodeInspection) + ":" + i.InspectionNo
}

func ShipmentNodeID(s entity.ShipmentRow) string {
	return string(entity.NodeShipment) + ":" + s.TransactionNo
}

type builder struct {
	reverse bool
	index   map[string]int
	nodes   []entity.LineageNode
	seen    map[string]struct{}
	edges   []entity.LineageEdge
}

func (b *builder) node(n entity.LineageNode) string {
	if _, ok := b.index[n.ID]; ok {
		return n.ID
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return n.ID
}

// edge registra la arista en sentido del flujo de material; en recorridos hacia
// atrás se invierte para seguir el orden en que se visitó.
func (b *builder) edge(source, target string, rel entity.Relation) {
	if b.reverse {
		source, target = target, source
	}
	k := source + "|" + target + "|" + string(rel)
	if _, ok := b.seen[k]; ok {
		return
	}
	b.seen[k] = struct{}{}
	b.edges = append(b.edges, entity.LineageEdge{Source: source, Target: target, Relation: rel})
}

func batchNode(k entity.BatchKey) entity.LineageNode {
	return entity.LineageNode{
		ID:      BatchNodeID(k),
		Type:    entity.NodeMaterialBatch,
		Label:   k.Code + " / " + k.BatchNo,
		Code:    k.Code,
		BatchNo: k.BatchNo,
	}
}

// taskStub nodo de una orden conocida solo por su número. Las órdenes se
// ensamblan antes que consumos e inspecciones, así que solo aparece si la fila falta.
func taskStub(taskNo string) entity.LineageNode {
	return entity.LineageNode{ID: TaskNodeID(taskNo), Type: entity.NodeProductionTask, Label: taskNo, ReferenceNo: taskNo}
}

// Assemble construye nodos y aristas. El orden es determinista para una misma
// entrada: nodo inicial, recepciones, órdenes con su lote de salida, consumos,
// inspecciones y despachos, cada grupo en el orden de las filas recibidas.
func Assemble(dir entity.Direction, start entity.BatchKey, trace entity.LineageTrace) ([]entity.LineageNode, []entity.LineageEdge) {
	b := &builder{
		reverse: dir == entity.DirectionBackward,
		index:   make(map[string]int),
		seen:    make(map[string]struct{}),
	}
	b.node(batchNode(start))

	for _, r := range trace.Receipts {
		rid := b.node(entity.LineageNode{
			ID:          ReceiptNodeID(r),
			Type:        entity.NodeReceipt,
			Label:       r.ReferenceNo,
			Code:        r.MaterialCode,
			BatchNo:     r.BatchNo,
			ReferenceNo: r.ReferenceNo,
			Date:        r.Date,
		})
		bid := b.node(batchNode(entity.BatchKey{Code: r.MaterialCode, BatchNo: r.BatchNo}))
		b.edge(rid, bid, entity.RelationReceived)
	}

	for _, t := range trace.Tasks {
		tid := b.node(entity.LineageNode{
			ID:          TaskNodeID(t.TaskNo),
			Type:        entity.NodeProductionTask,
			Label:       t.TaskNo + " (" + t.ProductCode + ")",
			Code:        t.ProductCode,
			BatchNo:     t.OutputBatchNo,
			ReferenceNo: t.TaskNo,
			Date:        t.StartedAt,
		})
		oid := b.node(batchNode(t.OutputKey()))
		b.edge(tid, oid, entity.RelationProduced)
	}

	for _, c := range trace.Consumptions {
		bid := b.node(batchNode(entity.BatchKey{Code: c.MaterialCode, BatchNo: c.BatchNo}))
		tid := b.node(taskStub(c.TaskNo))
		b.edge(bid, tid, entity.RelationConsumedBy)
	}

	for _, i := range trace.Inspections {
		iid := b.node(entity.LineageNode{
			ID:          InspectionNodeID(i),
			Type:        entity.NodeInspection,
			Label:       i.InspectionNo + " " + i.Result,
			Code:        i.ProductCode,
			BatchNo:     i.BatchNo,
			ReferenceNo: i.InspectionNo,
			Date:        i.InspectedAt,
		})
		tid := b.node(taskStub(i.TaskNo))
		b.edge(tid, iid, entity.RelationInspectedBy)
	}

	for _, s := range trace.Shipments {
		bid := b.node(batchNode(entity.BatchKey{Code: s.ProductCode, BatchNo: s.BatchNo}))
		sid := b.node(entity.LineageNode{
			ID:          ShipmentNodeID(s),
			Type:        entity.NodeShipment,
			Label:       s.ReferenceNo,
			Code:        s.ProductCode,
			BatchNo:     s.BatchNo,
			ReferenceNo: s.ReferenceNo,
			Date:        s.Date,
		})
		b.edge(bid, sid, entity.RelationShippedIn)
	}

	return b.nodes, b.edges
}
