package telegram

import "strings"

// MessageLimit: максимальная длина сообщения Telegram в символах.
const MessageLimit = 4096

// SplitMessage режет текст на части не длиннее limit символов.
// Сначала ищется граница блока (пустая строка), затем перевод строки,
// и только потом текст режется посередине, но не внутри HTML-тега или сущности.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var parts []string
	for len(runes) > 0 {
		if len(runes) <= limit {
			parts = appendChunk(parts, runes)
			break
		}
		cut := lastBreak(runes[:limit], "\n\n")
		if cut <= 0 {
			cut = lastBreak(runes[:limit], "\n")
		}
		if cut <= 0 {
			cut = markupSafeCut(runes[:limit])
		}
		parts = appendChunk(parts, runes[:cut])
		runes = []rune(strings.TrimLeft(string(runes[cut:]), "\n"))
	}
	return parts
}

func lastBreak(window []rune, sep string) int {
	idx := strings.LastIndex(string(window), sep)
	if idx < 0 {
		return -1
	}
	return len([]rune(string(window)[:idx])) + len([]rune(sep))
}

func appendChunk(parts []string, chunk []rune) []string {
	s := strings.Trim(string(chunk), "\n")
	if s == "" {
		return parts
	}
	return append(parts, s)
}

// maxEntityLen: длина самой длинной сущности, которую шлёт форматтер (&quot;).
const maxEntityLen = 6

// markupSafeCut возвращает позицию разреза не внутри незакрытого тега или сущности.
func markupSafeCut(window []rune) int {
	cut := len(window)
	lastOpen, lastClose := -1, -1
	lastAmp, lastSemi := -1, -1
	for i, r := range window {
		switch r {
		case '<':
			lastOpen = i
		case '>':
			lastClose = i
		case '&':
			lastAmp = i
		case ';':
			lastSemi = i
		}
	}
	if lastOpen > lastClose && lastOpen > 0 {
		cut = lastOpen
	}
	if lastAmp > lastSemi && lastAmp > 0 && len(window)-lastAmp < maxEntityLen && lastAmp < cut {
		cut = lastAmp
	}
	return cut
}
