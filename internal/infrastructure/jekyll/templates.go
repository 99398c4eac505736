package jekyll

import "text/template"

// Templates use [[ ]] so Liquid tags pass through untouched.

var articleTemplate = template.Must(template.New("article").Delims("[[", "]]").Parse(`---
[[.FrontMatter]]---

# Стаття [[.Number]]. [[.Title]]

[[.Body]]

## Практика Верховного Суду

<div class="decisions-container">
{% for decision in site.decisions %}
  {% if decision.article_numbers contains [[.Number]] %}
    <div class="decision-item">
      <h4><a href="{{ decision.url }}">{{ decision.title }}</a></h4>
      <p class="decision-date">{{ decision.date | date: "%d.%m.%Y" }}</p>
      <p class="decision-excerpt">{{ decision.content | strip_html | truncate: 200 }}</p>
    </div>
  {% endif %}
{% endfor %}
</div>

<div class="article-navigation">
  {% assign prev_article = site.articles | where: "number", [[.Prev]] | first %}
  {% assign next_article = site.articles | where: "number", [[.Next]] | first %}

  {% if prev_article %}
    <a href="{{ prev_article.url }}" class="prev-article">← Стаття {{ prev_article.number }}</a>
  {% endif %}

  {% if next_article %}
    <a href="{{ next_article.url }}" class="next-article">Стаття {{ next_article.number }} →</a>
  {% endif %}
</div>
`))

var decisionTemplate = template.Must(template.New("decision").Delims("[[", "]]").Parse(`---
[[.FrontMatter]]---

[[.Body]]

---

**Джерело:** [[.Source]]  
**Дата публікації:** [[.Published]]  
**ID поста:** [[.PostID]]

{% if page.article_numbers %}
**Статті КК:** {% for article_num in page.article_numbers %}[{{ article_num }}](/stattya-{{ article_num }}/){% unless forloop.last %}, {% endunless %}{% endfor %}
{% endif %}
`))

type articleView struct {
	FrontMatter string
	Number      int
	Title       string
	Body        string
	Prev        int
	Next        int
}

type decisionView struct {
	FrontMatter string
	Body        string
	Source      string
	Published   string
	PostID      int64
}
