package pdfrender

// proofTemplate is the HTML document handed to the PDF backend. Layout is
// sized for a Letter page with half-inch margins.
const proofTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 0; }
  .watermark {
    position: fixed; top: 45%; left: 0; right: 0;
    text-align: center; font-size: 48px; font-weight: bold;
    color: rgba(200, 30, 30, 0.15); transform: rotate(-30deg);
    z-index: 0;
  }
  .header { border-bottom: 2px solid #1a1a1a; padding-bottom: 12px; margin-bottom: 16px; }
  .header h1 { margin: 0; font-size: 22px; }
  .meta { font-size: 12px; color: #555; margin-top: 4px; }
  .file { page-break-inside: avoid; margin-bottom: 24px; }
  .file .placement { font-size: 14px; font-weight: bold; margin-bottom: 6px; }
  .file img { max-width: 100%; max-height: 640px; border: 1px solid #ddd; }
  .file .filename { font-size: 11px; color: #777; margin-top: 4px; }
  .badge { display: inline-block; font-size: 10px; padding: 2px 6px;
    border: 1px solid #c81e1e; color: #c81e1e; border-radius: 3px; margin-left: 6px; }
  .footer { font-size: 11px; color: #777; border-top: 1px solid #ddd;
    padding-top: 8px; margin-top: 24px; }
</style>
</head>
<body>
  <div class="watermark">{{.Watermark}}</div>
  <div class="header">
    <h1>Proof &mdash; Order {{.Order.OrderNumber}} (v{{.Version}})</h1>
    <div class="meta">
      {{if .Customer}}{{.Customer.Name}} &middot; {{.Customer.Email}}{{end}}
      {{if .Order.NeedsDigitizing}}<span class="badge">NEEDS DIGITIZING</span>{{end}}
      {{if .Order.DesignedBy66}}<span class="badge">DESIGNED BY 66</span>{{end}}
    </div>
  </div>
  {{range .Files}}
  <div class="file">
    <div class="placement">{{.Placement}}</div>
    <img src="{{.URL}}" alt="{{.Filename}}">
    <div class="filename">{{.Filename}}</div>
  </div>
  {{end}}
  <div class="footer">
    This document is a proof for approval purposes only. Colors may vary in production.
  </div>
</body>
</html>`
