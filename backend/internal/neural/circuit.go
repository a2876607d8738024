package neural

import "fmt"

// Rand источник случайных весов
type Rand interface {
	Float32() float32
}

// Circuit однослойная схема принятия решений: входные листья и выходные нейроны
type Circuit struct {
	graph   *Graph
	inputs  []*Variable
	outputs []NodeID
}

// NewRandomCircuit строит полносвязную схему со случайными весами в [-1, 1]
func NewRandomCircuit(rng Rand, inputs, outputs int) (*Circuit, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("circuit needs inputs and outputs, got %d/%d", inputs, outputs)
	}

	c := &Circuit{graph: NewGraph()}
	ids := make([]NodeID, 0, inputs)
	for i := 0; i < inputs; i++ {
		id, v := c.graph.AddVariable(0)
		ids = append(ids, id)
		c.inputs = append(c.inputs, v)
	}

	for o := 0; o < outputs; o++ {
		links := make([]Link, 0, inputs)
		for _, in := range ids {
			links = append(links, Link{From: in, Weight: rng.Float32()*2 - 1})
		}
		id, err := c.graph.AddNeuron(rng.Float32()*2-1, links...)
		if err != nil {
			return nil, err
		}
		c.outputs = append(c.outputs, id)
	}

	return c, nil
}

// SetInputs записывает значения сенсоров во входные листья
func (c *Circuit) SetInputs(values []float32) error {
	if len(values) != len(c.inputs) {
		return fmt.Errorf("circuit expects %d inputs, got %d", len(c.inputs), len(values))
	}
	for i, v := range c.inputs {
		v.SetValue(values[i])
	}
	return nil
}

// Output возвращает i-й выход схемы
func (c *Circuit) Output(i int) float32 {
	if i < 0 || i >= len(c.outputs) {
		return 0
	}
	return c.graph.Output(c.outputs[i])
}
