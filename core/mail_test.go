package core

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	report := map[string]interface{}{
		"AppName":    "EduScan",
		"SchoolName": "SMP <Negeri> 1",
		"Date":       "2024-03-04",
		"Stats":      map[string]int{"Total": 3, "Present": 1, "Late": 1, "Absent": 1},
		"Late": []map[string]string{
			{"Name": "Budi", "Class": "7B", "Time": "07:52"},
		},
	}

	t.Run("template", func(t *testing.T) {
		msg := EmailMessage{
			To:           []mail.Address{{Address: "office@school.test"}},
			Subject:      "report",
			TemplateName: "daily_report",
			TemplateData: report,
		}
		require.NoError(t, msg.Render())
		assert.True(t, msg.HasRecipients())
		assert.True(t, msg.HasContent())

		assert.Contains(t, msg.TextContent, "Attendance report for SMP <Negeri> 1 on 2024-03-04")
		assert.Contains(t, msg.TextContent, "- Budi (7B) at 07:52")
		assert.Contains(t, msg.HTMLContent, "SMP &lt;Negeri&gt; 1")
		assert.Contains(t, msg.HTMLContent, "Budi")
		assert.True(t, strings.Contains(msg.TextContent, "EduScan"), "base template is applied")
	})

	t.Run("missing key", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "daily_report", TemplateData: map[string]interface{}{"Date": "2024-03-04"}}
		assert.Error(t, msg.Render())
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "lol", TemplateData: report}
		require.NoError(t, msg.Render())
		assert.False(t, msg.HasContent())
	})

	t.Run("plain body", func(t *testing.T) {
		msg := EmailMessage{BodyStr: "hello"}
		require.NoError(t, msg.Render())
		assert.Equal(t, "hello", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
		assert.False(t, msg.HasRecipients())
	})
}
