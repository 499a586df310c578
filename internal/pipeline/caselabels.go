package pipeline

import (
	"strconv"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// ExpandCaseRangesAndLabels expands a GNU case-range label ("case 1 ...
// 3:") into one "case N:" per value, and inserts an explicit ";" marker
// after a label with an empty statement ("default:}" -> "default: ;}")
// so the AST builder never has to special-case a label with nothing
// after it (spec.md §4.3 step 23).
func ExpandCaseRangesAndLabels(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "case" {
			lowTok := u.Tokens.Next(cur)
			dots := u.Tokens.Next(lowTok)
			if lexemeAt(u, dots) == "..." {
				highTok := u.Tokens.Next(dots)
				colon := u.Tokens.Next(highTok)
				low, errL := strconv.Atoi(lexemeAt(u, lowTok))
				high, errH := strconv.Atoi(lexemeAt(u, highTok))
				if errL == nil && errH == nil && lexemeAt(u, colon) == ":" && high >= low && high-low < 4096 {
					after := u.Tokens.Next(colon)
					prev := u.Tokens.Prev(cur)
					_ = u.Tokens.Erase(cur, after)
					anchor := prev
					for v := low; v <= high; v++ {
						anchor = u.Tokens.InsertAfter(anchor, "case", token.Keyword)
						anchor = u.Tokens.InsertAfter(anchor, strconv.Itoa(v), token.Number)
						anchor = u.Tokens.InsertAfter(anchor, ":", token.Other)
					}
					next = after
				}
			}
		}
		if (lexemeAt(u, cur) == "default" || lexemeAt(u, cur) == "case") {
			colon := cur
			for colon != token.NoRef && lexemeAt(u, colon) != ":" {
				colon = u.Tokens.Next(colon)
			}
			if colon != token.NoRef && lexemeAt(u, u.Tokens.Next(colon)) == "}" {
				ins := u.Tokens.InsertAfter(colon, ";", token.Other)
				_ = ins
			}
		}
		cur = next
	}
	return nil, nil
}
