package evaluate

import "strings"

const (
	promptItemCountToken    = "{{ITEM_COUNT}}"
	promptSourceCountsToken = "{{SOURCE_COUNTS}}"
	promptItemsToken        = "{{ITEMS_JSON}}"
	promptHistoryToken      = "{{HISTORY_JSON}}"
)

const selectionPrompt = `Analyze the following trending items and select the most valuable ones.

There are {{ITEM_COUNT}} items from these sources:
{{SOURCE_COUNTS}}

Items:
{{ITEMS_JSON}}

Historical selection context (recent high-value picks, recurring successful patterns, correlations):
{{HISTORY_JSON}}

Evaluate each item by:
1. Importance and impact (40%)
2. Timeliness (20%)
3. Credibility of the source and discussion (20%)
4. Practical value (20%)

Return a JSON array. Each element must contain exactly these fields:
- source: copied verbatim from the item
- title: copied verbatim from the item
- url: copied verbatim from the item
- value_summary: why this item matters, at most 100 characters

Rules:
1. Return only the JSON array, no other text
2. Use double quotes; the output must be valid JSON
3. Select at least one item from every source that has any candidate
4. Skip a source only when none of its items are worth selecting
5. Select 3 to 5 items in total
6. Field values must match the originals exactly; never rewrite them`

func applyPromptTokens(itemCount, sourceCounts, itemsJSON, historyJSON string) string {
	out := strings.ReplaceAll(selectionPrompt, promptItemCountToken, itemCount)
	out = strings.ReplaceAll(out, promptSourceCountsToken, sourceCounts)
	out = strings.ReplaceAll(out, promptItemsToken, itemsJSON)

	return strings.ReplaceAll(out, promptHistoryToken, historyJSON)
}
