package neural

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestVariableOutputEqualsValue(t *testing.T) {
	v := NewVariable(0)
	if v.Output() != 0 || v.Value() != 0 {
		t.Fatalf("начальное значение должно быть 0, got %v", v.Output())
	}

	v.SetValue(2.5)
	if v.Output() != 2.5 {
		t.Errorf("Output = %v, want 2.5", v.Output())
	}
	// Повторное чтение без записи дает то же значение
	if v.Output() != v.Output() {
		t.Error("Output должен быть стабильным")
	}

	var n Node = NewVariable(-1)
	if n.Output() != -1 {
		t.Errorf("Output = %v, want -1", n.Output())
	}
}

func TestGraphNeuronPullEvaluation(t *testing.T) {
	g := NewGraph()
	a, av := g.AddVariable(1)
	b, _ := g.AddVariable(0.5)

	n, err := g.AddNeuron(0.1, Link{From: a, Weight: 0.2}, Link{From: b, Weight: -0.4})
	if err != nil {
		t.Fatalf("AddNeuron: %v", err)
	}

	want := float32(math.Tanh(0.1 + 0.2*1 - 0.4*0.5))
	if got := g.Output(n); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("Output = %v, want %v", got, want)
	}

	// Запись во вход сразу видна при следующем чтении
	if err := g.Set(a, -1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	want = float32(math.Tanh(0.1 - 0.2 - 0.4*0.5))
	if got := g.Output(n); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("после Set: Output = %v, want %v", got, want)
	}

	// Лист графа и есть Variable: запись через него видна нейрону
	av.SetValue(0)
	want = float32(math.Tanh(0.1 - 0.4*0.5))
	if got := g.Output(n); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("после SetValue: Output = %v, want %v", got, want)
	}

	leaf, err := g.Node(a)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if leaf != Node(av) {
		t.Error("Node должен возвращать тот же Variable, что и AddVariable")
	}

	node, err := g.Node(n)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	if node.Output() != g.Output(n) {
		t.Error("Node.Output должен совпадать с Graph.Output")
	}
}

func TestGraphRejectsUnknownLinks(t *testing.T) {
	g := NewGraph()
	_, _ = g.AddVariable(0)

	if _, err := g.AddNeuron(0, Link{From: 5, Weight: 1}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if err := g.Set(10, 1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
	if _, err := g.Node(-1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}

func TestGraphSetOnNeuronFails(t *testing.T) {
	g := NewGraph()
	a, _ := g.AddVariable(0)
	n, _ := g.AddNeuron(0, Link{From: a, Weight: 1})
	if err := g.Set(n, 1); err == nil {
		t.Error("запись в нейрон должна возвращать ошибку")
	}
}

func TestRandomCircuit(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	c, err := NewRandomCircuit(rng, 4, 2)
	if err != nil {
		t.Fatalf("NewRandomCircuit: %v", err)
	}
	if len(c.inputs) != 4 || len(c.outputs) != 2 || c.graph.Len() != 6 {
		t.Fatalf("неверная форма схемы: %d входов, %d выходов, %d узлов", len(c.inputs), len(c.outputs), c.graph.Len())
	}

	if err := c.SetInputs([]float32{1, 0, -1, 0.5}); err != nil {
		t.Fatalf("SetInputs: %v", err)
	}
	// Входы схемы пишутся прямо в листья графа
	for i, want := range []float32{1, 0, -1, 0.5} {
		leaf, err := c.graph.Node(NodeID(i))
		if err != nil {
			t.Fatalf("Node(%d): %v", i, err)
		}
		if leaf != Node(c.inputs[i]) || leaf.Output() != want {
			t.Errorf("лист %d = %v, want %v", i, leaf.Output(), want)
		}
	}
	for i := 0; i < len(c.outputs); i++ {
		out := c.Output(i)
		if out < -1 || out > 1 {
			t.Errorf("выход %d = %v вне [-1, 1]", i, out)
		}
	}

	if err := c.SetInputs([]float32{1}); err == nil {
		t.Error("ожидалась ошибка при неверном числе входов")
	}
	if _, err := NewRandomCircuit(rng, 0, 1); err == nil {
		t.Error("ожидалась ошибка для схемы без входов")
	}
}
