package chatbot

import "embed"

// TemplateFS contains the embedded HTML templates used for rendering the chatbot page and the chat log
// history. These templates are organized in a directory structure that separates layouts, pages, and
// partial views.
//
//go:embed templates/*
var TemplateFS embed.FS

// StaticFS contains the embedded static assets, the stylesheet and the browser script that binds the
// chatbot page elements to the API endpoints.
//
//go:embed static/*
var StaticFS embed.FS
