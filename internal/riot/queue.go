package riot

// Ranked queue ids.
const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
)

var queueNames = map[int]string{
	QueueRankedSolo: "Ranked Solo/Duo",
	QueueRankedFlex: "Ranked Flex",
	400:             "Normal Draft",
	430:             "Normal Blind",
	450:             "ARAM",
	490:             "Quickplay",
	900:             "URF",
	1020:            "One for All",
	1300:            "Nexus Blitz",
	1400:            "Ultimate Spellbook",
	1700:            "Arena",
}

// QueueName returns a human-readable queue name.
func QueueName(queueID int) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return "Custom Game"
}

// IsRankedQueue reports whether a queue id carries ranked standing.
func IsRankedQueue(queueID int) bool {
	return queueID == QueueRankedSolo || queueID == QueueRankedFlex
}

// LeagueQueueType maps a match queue id to the League-V4 queueType string.
func LeagueQueueType(queueID int) string {
	switch queueID {
	case QueueRankedSolo:
		return "RANKED_SOLO_5x5"
	case QueueRankedFlex:
		return "RANKED_FLEX_SR"
	default:
		return ""
	}
}
