package model

import "time"

// NoContractCode 未提供合同编号时写入 contracts.code 的占位值
const NoContractCode = "None"

// Employee 员工维度
type Employee struct {
	ID        int64  `json:"id"`
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
}

// FullName 姓在前、名在后
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	return e.LastName + " " + e.FirstName
}

// Project 项目维度（name 为规范化后的项目名）
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Contract 合同维度，(project_id, code) 唯一
type Contract struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"projectId"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// TimesheetEntry 工时事实行（只追加）
type TimesheetEntry struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	ContractID int64     `json:"contractId"`
	Date       string    `json:"date"`
	Hours      int       `json:"hours"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FactRow 规范化后的事实行（未入库）
// ContractCode 为空表示原始标签中没有合同编号
type FactRow struct {
	Date         string `json:"date"`
	Project      string `json:"project"`
	ContractCode string `json:"contractCode,omitempty"`
	Hours        int    `json:"hours"`
}

// StoredCode 返回写入 contracts.code 的值
func (r FactRow) StoredCode() string {
	if r.ContractCode == "" {
		return NoContractCode
	}
	return r.ContractCode
}

// TimesheetView 员工 × 合同 × 项目 × 日期 × 工时 的完整关联视图
type TimesheetView struct {
	EntryID      int64  `json:"entryId"`
	Date         string `json:"date"`
	Hours        int    `json:"hours"`
	LastName     string `json:"lastName"`
	FirstName    string `json:"firstName"`
	Project      string `json:"project"`
	ContractCode string `json:"contractCode"`
	ContractID   int64  `json:"contractId"`
}

// Employee 报表用的员工显示名
func (v TimesheetView) Employee() string {
	return Employee{LastName: v.LastName, FirstName: v.FirstName}.FullName()
}

// ProjectFull 带合同编号的项目显示名，如 "Propa (834)"
func (v TimesheetView) ProjectFull() string {
	if v.ContractCode == "" || v.ContractCode == NoContractCode {
		return v.Project
	}
	return v.Project + " (" + v.ContractCode + ")"
}

// EmployeeTotal 员工汇总（记录数与总工时）
type EmployeeTotal struct {
	EmployeeID int64  `json:"employeeId"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	Records    int    `json:"records"`
	TotalHours int    `json:"totalHours"`
}

// ProjectTotal 项目汇总（按合同编号区分）
type ProjectTotal struct {
	Project      string `json:"project"`
	ContractCode string `json:"contractCode"`
	Employees    int    `json:"employees"`
	Records      int    `json:"records"`
	TotalHours   int    `json:"totalHours"`
}

// ProjectFull 带合同编号的项目显示名
func (p ProjectTotal) ProjectFull() string {
	return TimesheetView{Project: p.Project, ContractCode: p.ContractCode}.ProjectFull()
}
