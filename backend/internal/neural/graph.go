package neural

import (
	"errors"
	"fmt"
	"math"
)

// NodeID стабильный индекс узла в графе
type NodeID int

// ErrUnknownNode возвращается при ссылке на несуществующий узел
var ErrUnknownNode = errors.New("unknown node")

// Link входящая связь нейрона
type Link struct {
	From   NodeID
	Weight float32
}

// neuron производный узел tanh(bias + sum(w*x)); входы читаются из графа при каждом Output
type neuron struct {
	graph *Graph
	bias  float32
	links []Link
}

func (n *neuron) Output() float32 {
	sum := float64(n.bias)
	for _, l := range n.links {
		sum += float64(l.Weight) * float64(n.graph.Output(l.From))
	}
	return float32(math.Tanh(sum))
}

// Graph хранит узлы в арене и адресует их индексами.
//
// Модель вычисления одна на весь процесс: pull. Производный узел пересчитывается
// из входов при каждом чтении, кэша нет. Связи допускаются только на уже
// существующие узлы, поэтому граф ацикличен по построению.
type Graph struct {
	nodes []Node
}

// NewGraph создает пустой граф
func NewGraph() *Graph {
	return &Graph{}
}

// Len возвращает количество узлов
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddVariable добавляет лист с начальным значением
func (g *Graph) AddVariable(init float32) (NodeID, *Variable) {
	v := NewVariable(init)
	g.nodes = append(g.nodes, v)
	return NodeID(len(g.nodes) - 1), v
}

// AddNeuron добавляет нейрон tanh(bias + sum(w*x)) над существующими узлами
func (g *Graph) AddNeuron(bias float32, links ...Link) (NodeID, error) {
	for _, l := range links {
		if !g.valid(l.From) {
			return 0, fmt.Errorf("neuron link from %d: %w", l.From, ErrUnknownNode)
		}
	}

	copied := make([]Link, len(links))
	copy(copied, links)

	g.nodes = append(g.nodes, &neuron{graph: g, bias: bias, links: copied})
	return NodeID(len(g.nodes) - 1), nil
}

// Set записывает значение листа
func (g *Graph) Set(id NodeID, value float32) error {
	if !g.valid(id) {
		return fmt.Errorf("set %d: %w", id, ErrUnknownNode)
	}
	v, ok := g.nodes[id].(*Variable)
	if !ok {
		return fmt.Errorf("set %d: node is not a variable", id)
	}
	v.SetValue(value)
	return nil
}

// Output вычисляет выход узла
func (g *Graph) Output(id NodeID) float32 {
	if !g.valid(id) {
		return 0
	}
	return g.nodes[id].Output()
}

// Node возвращает узел по индексу
func (g *Graph) Node(id NodeID) (Node, error) {
	if !g.valid(id) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return g.nodes[id], nil
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}
