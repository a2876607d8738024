package neural

// Node узел вычислительного графа, выдающий одно числовое значение.
// Output не имеет побочных эффектов: повторное чтение без записи дает то же значение.
type Node interface {
	Output() float32
}

// Variable листовой узел с изменяемым значением
type Variable struct {
	value float32
}

// NewVariable создает лист с начальным значением
func NewVariable(init float32) *Variable {
	return &Variable{value: init}
}

// Value возвращает текущее значение
func (v *Variable) Value() float32 {
	return v.value
}

// SetValue устанавливает значение
func (v *Variable) SetValue(value float32) {
	v.value = value
}

// Output для листа всегда равен Value
func (v *Variable) Output() float32 {
	return v.value
}
