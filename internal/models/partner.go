// Package models содержит доменные структуры портала партнёров:
// учётные записи, профили партнёров, оформленные подписки и события.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Partner — профиль партнёра, привязанный к учётной записи.
//
// Commission задаётся администратором; пока она не задана (Valid == false),
// партнёр не может оформлять подписки. Не может оформлять их и партнёр
// с деактивированной учётной записью (Active == false).
type Partner struct {
	ID             int64
	UserID         int64
	Email          string // Почта учётной записи
	Active         bool   // Учётная запись активна
	FirstName      string
	LastName       string
	MiddleName     string
	Phone          string
	INN            string
	CompanyName    string
	ContractNumber string
	Debt           decimal.Decimal     // Задолженность перед сервисом, 2 знака
	Commission     decimal.NullDecimal // Процент комиссии, 1 знак
	DateRegistered time.Time
}

// HasCommission сообщает, задана ли партнёру комиссия.
func (p Partner) HasCommission() bool {
	return p.Commission.Valid
}

// OverallStats — суммарные показатели партнёра за всё время:
// Sales — сумма стоимостей проданных подписок, Revenue — заработок партнёра.
type OverallStats struct {
	Count   int64           `json:"count"`
	Sales   decimal.Decimal `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}
