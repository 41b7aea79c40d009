package domain

import "github.com/shopspring/decimal"

// IsGroupParent 判断客户是否为集团母体：显式标记、类型标记或存在子客户任一满足
func IsGroupParent(client Client, allClients []Client) bool {
	if client.IsGroup || client.Type == ClientTypeGrupoOriginador {
		return true
	}
	for _, c := range allClients {
		if c.ParentClientID != nil && *c.ParentClientID == client.ID {
			return true
		}
	}
	return false
}

// GroupMemberIDs 返回集团 id 集合 {母体, 全部子客户}
func GroupMemberIDs(parent Client, allClients []Client) []string {
	ids := []string{parent.ID}
	for _, c := range allClients {
		if c.ParentClientID != nil && *c.ParentClientID == parent.ID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CalcEffectiveKPI 集团感知的客户指标：母体按合并口径计算，普通客户按单体计算。
// 幂等，不修改任何输入记录。
func CalcEffectiveKPI(client Client, allClients []Client, invoices []Invoice, opts KPIOptions) ClientKPI {
	if !IsGroupParent(client, allClients) {
		return CalcClientKPI(client, invoices, opts)
	}

	ids := GroupMemberIDs(client, allClients)
	limit := GroupCreditLine(client, allClients)

	groupOpts := opts
	groupOpts.ClientIDs = ids
	groupOpts.CreditLimitOverride = &limit
	kpi := CalcClientKPI(client, invoices, groupOpts)
	kpi.IsConsolidated = true
	return kpi
}

// TopLevelClients 过滤出顶层客户，集团汇总场景下母体代表整个集团。
// 父级不在给定集合中的子客户视为顶层，避免其账单被静默丢弃。
func TopLevelClients(clients []Client) []Client {
	ids := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		ids[c.ID] = struct{}{}
	}

	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if c.IsChild() {
			if _, ok := ids[*c.ParentClientID]; ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// GroupCreditLine 集团额度合计，非集团客户返回自身额度
func GroupCreditLine(client Client, allClients []Client) decimal.Decimal {
	limit := client.CreditLine
	for _, c := range allClients {
		if c.ParentClientID != nil && *c.ParentClientID == client.ID {
			limit = limit.Add(c.CreditLine)
		}
	}
	return limit
}
