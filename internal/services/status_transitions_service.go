package services

import "vernopromo/internal/models"

// Допустимые переходы статусов участника.
// NB: APPROVED/REJECTED выставляет проверяющая сторона, не этот сервис.
var MemberTransitions = map[string]map[string]bool{
	models.StatusUnverified:     {models.StatusRegistered: true},
	models.StatusRegistered:     {models.StatusBaseFormRefill: true},
	models.StatusBaseFormRefill: {models.StatusDocsRequest: true},
	models.StatusDocsRequest:    {models.StatusDocsCheck: true},
	models.StatusDocsCheck:      {models.StatusApproved: true, models.StatusRejected: true},
	models.StatusApproved:       {},
	models.StatusRejected:       {models.StatusDocsRequest: true}, // повторная подача документов
}

// линейный порядок "анкетной" части воронки: по нему patch двигает
// участника на один шаг вперёд
var memberStatusOrder = []string{
	models.StatusUnverified,
	models.StatusRegistered,
	models.StatusBaseFormRefill,
	models.StatusDocsRequest,
	models.StatusDocsCheck,
}

func CanTransition(current, to string) bool {
	nexts, ok := MemberTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

// NextMemberStatus — следующий шаг воронки; false на финальных статусах.
func NextMemberStatus(current string) (string, bool) {
	for i, s := range memberStatusOrder {
		if s == current && i+1 < len(memberStatusOrder) {
			next := memberStatusOrder[i+1]
			if CanTransition(current, next) {
				return next, true
			}
		}
	}
	return current, false
}
