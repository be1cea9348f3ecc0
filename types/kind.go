package types

import "fmt"

// ElementKind 电路元件类型
type ElementKind int

// 电路元件类型常量定义
const (
	KindUnknown  ElementKind = iota // 未知类型
	KindResistor                    // 电阻 R
	KindCapacitor                   // 电容 C
	KindInductor                    // 电感 L
	KindVoltage                     // 独立电压源 V
	KindCurrent                     // 独立电流源 I
	KindVCVS                        // 电压控制电压源 E
	KindVCCS                        // 电压控制电流源 G
	KindCCCS                        // 电流控制电流源 F
	KindCCVS                        // 电流控制电压源 H
	KindShort                       // 理想导线(源置零产物)
)

// kindTable 元件映射
var kindTable = map[ElementKind]struct {
	Name       string
	Designator byte
	Pins       int  // 网表节点标签数量(不含控制源标号)
	Controlled bool // 受控源
}{
	KindResistor:  {Name: "Resistor", Designator: 'R', Pins: 2},
	KindCapacitor: {Name: "Capacitor", Designator: 'C', Pins: 2},
	KindInductor:  {Name: "Inductor", Designator: 'L', Pins: 2},
	KindVoltage:   {Name: "VoltageSource", Designator: 'V', Pins: 2},
	KindCurrent:   {Name: "CurrentSource", Designator: 'I', Pins: 2},
	KindVCVS:      {Name: "VCVS", Designator: 'E', Pins: 4, Controlled: true},
	KindVCCS:      {Name: "VCCS", Designator: 'G', Pins: 4, Controlled: true},
	KindCCCS:      {Name: "CCCS", Designator: 'F', Pins: 2, Controlled: true},
	KindCCVS:      {Name: "CCVS", Designator: 'H', Pins: 2, Controlled: true},
	KindShort:     {Name: "Short", Designator: 'W', Pins: 2},
}

var designatorKind = map[byte]ElementKind{}

func init() {
	for k, info := range kindTable {
		designatorKind[info.Designator] = k
	}
}

// String 返回元件类型的字符串表示
func (k ElementKind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.Name
	}
	return "Unknown"
}

// Designator 网表标识字母
func (k ElementKind) Designator() byte {
	if info, ok := kindTable[k]; ok {
		return info.Designator
	}
	return '?'
}

// Pins 网表节点标签数量
func (k ElementKind) Pins() int {
	if info, ok := kindTable[k]; ok {
		return info.Pins
	}
	return 0
}

// Controlled 是否为受控源
func (k ElementKind) Controlled() bool {
	if info, ok := kindTable[k]; ok {
		return info.Controlled
	}
	return false
}

// KindFromDesignator 通过网表标识字母获取类型
func KindFromDesignator(b byte) (ElementKind, error) {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	if k, ok := designatorKind[b]; ok && k != KindShort {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("未知元件标识: %c", b)
}
