package platform

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxBodySize 平台请求体上限
const maxBodySize = 1 << 20

// collectParams 合并查询串、表单与 JSON 请求体中的参数，后者覆盖前者
func collectParams(c *gin.Context) (map[string]string, error) {
	params := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if c.Request.Body == nil || c.Request.Method == "GET" {
		return params, nil
	}

	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			return params, nil
		}
		dec := json.NewDecoder(strings.NewReader(string(raw)))
		dec.UseNumber()
		var body map[string]interface{}
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		for k, v := range body {
			if v == nil {
				continue
			}
			params[k] = fmt.Sprint(v)
		}
		return params, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}
