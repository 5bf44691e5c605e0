package fetcher

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rotisserie/eris"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractJSON 从回答中提取JSON（处理markdown代码块）
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	// 尝试提取 ```json ... ``` 代码块
	if matches := fencePattern.FindStringSubmatch(response); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// 只有开头的代码块标记，没有结尾
	response = strings.TrimSpace(strings.TrimPrefix(response, "```json"))

	// 如果没有代码块，尝试找 { } 包围的内容
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		return response[start : end+1]
	}
	return response
}

// ParseReplyObject 把回答解析为单个JSON对象，严格解析失败时尝试修复
func ParseReplyObject(response string) (map[string]any, error) {
	content := ExtractJSON(response)
	if !strings.Contains(content, "{") {
		return nil, eris.New("reply: no json object in response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		return obj, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, eris.Wrap(err, "reply: repair json")
	}
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, eris.Wrap(err, "reply: decode repaired json")
	}
	if obj == nil {
		return nil, eris.New("reply: json is not an object")
	}
	return obj, nil
}
