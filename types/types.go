// Package types 定义电路分析共享的基础类型与常量。
package types

// NodeID 节点索引。地节点为 Gnd。
type NodeID int

// VoltageID 电压源行索引
type VoltageID int

// 默认连接常量定义
const (
	Gnd       NodeID    = -1 // 标记为地
	NoVoltage VoltageID = -1 // 无电压源行
)

// 默认参数常量定义
const (
	DefaultGround = "0"     // 默认地节点标签
	LaplaceVar    = "s"     // 拉普拉斯域变量名
	DefaultOmega  = "omega" // AC 源默认角频率符号名
)
