package blocks

import "html/template"

// carouselJS advances every [data-carousel] element on its data-interval
// and wires the prev/next/dot controls. Controls that are links keep
// working without it.
const carouselJS = `
(function () {
  document.querySelectorAll('[data-carousel]').forEach(function (root) {
    var count = parseInt(root.dataset.count, 10) || 0;
    if (count <= 1) return;
    var interval = parseInt(root.dataset.interval, 10) || 5000;
    var current = parseInt(root.dataset.current, 10) || 0;
    var track = root.querySelector('[data-carousel-track]');
    var slides = root.querySelectorAll('[data-slide-index]');
    function show(i) {
      current = ((i % count) + count) % count;
      if (track) track.style.transform = 'translateX(-' + current * 100 + '%)';
      slides.forEach(function (s) {
        var on = parseInt(s.dataset.slideIndex, 10) === current;
        if (track) s.setAttribute('aria-hidden', on ? 'false' : 'true');
        else s.hidden = !on;
      });
    }
    var timer = setInterval(function () { show(current + 1); }, interval);
    root.querySelectorAll('[data-slide]').forEach(function (c) {
      c.addEventListener('click', function (e) {
        e.preventDefault();
        clearInterval(timer);
        show(parseInt(c.dataset.slide, 10));
        timer = setInterval(function () { show(current + 1); }, interval);
      });
    });
  });
})();`

// Script returns the client script that drives carousels and testimonial
// rotators. Pages include it once, after their blocks.
func Script() template.HTML {
	return template.HTML("<script>" + carouselJS + "</script>")
}
