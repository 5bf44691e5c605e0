package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCompanyName(t *testing.T) {
	testCases := []struct {
		name string
		want []string
	}{
		{"京东方科技 (BOE Technology)", []string{"京东方科技", "BOE Technology"}},
		{"商汤科技（SenseTime）", []string{"商汤科技", "SenseTime"}},
		{"旷视【Megvii】", []string{"旷视", "Megvii"}},
		{"小马智行[Pony.ai]有限公司", []string{"小马智行", "Pony.ai"}},
		{"展讯通信（上海）有限公司", []string{"展讯通信（上海）有限公司"}},
		{"(OpenAI)", []string{"OpenAI"}},
		{"  字节跳动  ", []string{"字节跳动"}},
		{"Sequoia Capital", []string{"Sequoia Capital"}},
		// 第一种括号内不是英文时继续尝试下一种
		{"智谱（北京）[Zhipu AI]", []string{"智谱（北京）", "Zhipu AI"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitCompanyName(tc.name))
		})
	}
}

func TestSplitCompanyNameSegmentsNonEmpty(t *testing.T) {
	for _, name := range []string{"()", "a()", "(x", "（）", "【】abc", "甲（乙"} {
		parts := SplitCompanyName(name)
		assert.NotEmpty(t, parts, name)
		assert.LessOrEqual(t, len(parts), 2, name)
	}
}

func TestMatchesReference(t *testing.T) {
	refs := ReferenceSet{"BOE Technology Group", "红杉资本", "IDG", "腾讯"}

	testCases := []struct {
		name string
		want bool
	}{
		{"京东方科技 (BOE Technology)", true},
		{"红杉资本中国基金", true},
		{"红杉", false},
		{"IDG资本", true},
		// 过短的参考片段不参与匹配
		{"腾讯音乐", false},
		{"高瓴资本", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesReference(tc.name, refs))
		})
	}
}

func TestMatchesReferenceShortCompanyPart(t *testing.T) {
	// 公司片段 <=2 个字符时不能反向包含
	assert.False(t, MatchesReference("红杉", ReferenceSet{"红杉资本"}))
	assert.True(t, MatchesReference("红杉资", ReferenceSet{"红杉资本"}))
}

func TestMatchesReferenceEmptySet(t *testing.T) {
	assert.False(t, MatchesReference("任意公司", nil))
}

func TestNameVariants(t *testing.T) {
	testCases := []struct {
		name string
		want []string
	}{
		{"字节跳动", []string{"字节跳动"}},
		{"京东方科技(BOE)有限公司", []string{
			"京东方科技(BOE)有限公司",
			"京东方科技 (BOE) 有限公司",
			"京东方科技 有限公司",
		}},
		{"商汤科技（SenseTime）", []string{
			"商汤科技（SenseTime）",
			"商汤科技 (SenseTime)",
			"商汤科技",
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NameVariants(tc.name)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, len(got), 3)
		})
	}
}

func TestNameVariantsDeduplicates(t *testing.T) {
	got := NameVariants("A (B) C")
	assert.Equal(t, []string{"A (B) C", "A C"}, got)
}
